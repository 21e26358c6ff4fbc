package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TimeOfDay is the meal/observation window a submission belongs to.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch TimeOfDay(strings.ToLower(strings.TrimSpace(s))) {
	case Morning:
		return Morning, nil
	case Afternoon:
		return Afternoon, nil
	case Evening:
		return Evening, nil
	case Night:
		return Night, nil
	}
	return "", fmt.Errorf("invalid time of day: %q", s)
}

// Role identifies which slot of a submission an upload fills.
type Role string

const (
	RoleVoice     Role = "voice"
	RoleCondition Role = "condition"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleVoice:
		return RoleVoice, nil
	case RoleCondition:
		return RoleCondition, nil
	}
	return "", fmt.Errorf("invalid upload role: %q", s)
}

// State is the position of a submission in its lifecycle. Transitions are
// driven by user actions only; normalizing/transcribing are passed through
// synchronously during an upload call.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingUploads State = "awaiting_uploads"
	StateNormalizing     State = "normalizing"
	StateTranscribing    State = "transcribing"
	StateAwaitingReview  State = "awaiting_review"
	StateArchiving       State = "archiving"
	StateDone            State = "done"
	StateRejected        State = "rejected"
)

// MediaBlob is an uploaded file as received: raw bytes plus the name and
// extension the client declared. Never mutated after creation.
type MediaBlob struct {
	OriginalName string `json:"original_name"`
	Ext          string `json:"ext"` // lowercase, no leading dot
	Bytes        []byte `json:"-"`
}

// NewMediaBlob keeps only the base of the declared name and derives the
// extension from what remains. The name feeds into filesystem paths later,
// so directory components must not survive past this point.
func NewMediaBlob(originalName string, data []byte) *MediaBlob {
	name := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	if name == "." || name == ".." || name == "/" {
		name = ""
	}
	ext := ""
	if i := strings.LastIndex(name, "."); i >= 0 {
		ext = strings.ToLower(name[i+1:])
	}
	return &MediaBlob{
		OriginalName: name,
		Ext:          ext,
		Bytes:        data,
	}
}

// ArchivedArtifact records where an original upload landed in the archive.
// Immutable after creation; there is no delete or update path.
type ArchivedArtifact struct {
	StoredName string `json:"stored_name"`
	StoredPath string `json:"stored_path"`
}
