package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/swasthlog/internal/archive"
	"github.com/nikhilbhutani/swasthlog/internal/models"
	"github.com/nikhilbhutani/swasthlog/internal/normalizer"
	"github.com/nikhilbhutani/swasthlog/internal/notetext"
	"github.com/nikhilbhutani/swasthlog/internal/transcriber"
)

// Slot holds everything the pipeline derives from one upload.
type Slot struct {
	Blob           *models.MediaBlob
	NormalizedPath string
	Transcript     *transcriber.Result
	FinalText      string
	Reviewed       bool
}

// DisplayText is the authoritative text for the slot: the reviewed value if
// the user edited it, otherwise the transcript rendered the way the review
// form showed it. The review value fully replaces the automatic transcript.
func (s *Slot) DisplayText() string {
	if s.Reviewed {
		return s.FinalText
	}
	if s.Transcript == nil {
		return ""
	}
	return s.Transcript.DisplayText()
}

// Submission is one session's pair of notes. Held only in memory until
// Submit archives the originals.
type Submission struct {
	mu sync.Mutex

	ID        uuid.UUID
	Owner     string
	TimeOfDay models.TimeOfDay
	State     models.State
	CreatedAt time.Time
	Slots     map[models.Role]*Slot
}

// snapshot copies the submission so callers can read it after the lock is
// released. Slot values are copied; the blobs and transcripts they point at
// are immutable once attached.
func (sub *Submission) snapshot() *Submission {
	cp := &Submission{
		ID:        sub.ID,
		Owner:     sub.Owner,
		TimeOfDay: sub.TimeOfDay,
		State:     sub.State,
		CreatedAt: sub.CreatedAt,
		Slots:     make(map[models.Role]*Slot, len(sub.Slots)),
	}
	for role, slot := range sub.Slots {
		c := *slot
		cp.Slots[role] = &c
	}
	return cp
}

// Receipt is what Submit reports back: where each original landed plus the
// final text pair.
type Receipt struct {
	Voice         *models.ArchivedArtifact
	Condition     *models.ArchivedArtifact
	VoiceText     string
	ConditionText string
}

// Service sequences the pipeline per submission: normalize, transcribe,
// review, archive. Every stage runs synchronously in the caller; there is no
// background execution and no retry of an in-flight recognition call.
// Concurrent requests against the same submission serialize on its lock.
type Service struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]*Submission

	norm     *normalizer.Normalizer
	stt      transcriber.Provider
	arc      *archive.Archive
	language string
}

func NewService(norm *normalizer.Normalizer, stt transcriber.Provider, arc *archive.Archive, language string) *Service {
	return &Service{
		subs:     make(map[uuid.UUID]*Submission),
		norm:     norm,
		stt:      stt,
		arc:      arc,
		language: language,
	}
}

// Create opens a submission for the authenticated identity.
func (s *Service) Create(ctx context.Context, owner string, tod models.TimeOfDay) *Submission {
	sub := &Submission{
		ID:        uuid.New(),
		Owner:     owner,
		TimeOfDay: tod,
		State:     models.StateAwaitingUploads,
		CreatedAt: time.Now(),
		Slots:     make(map[models.Role]*Slot),
	}

	// Snapshot before the insert makes the submission reachable.
	cp := sub.snapshot()

	s.mu.Lock()
	s.subs[sub.ID] = sub
	s.mu.Unlock()

	slog.Info("submission created", "id", sub.ID, "time_of_day", tod)
	return cp
}

// Get returns a copy of a submission if it exists and belongs to owner.
// Submissions owned by someone else are indistinguishable from missing ones.
func (s *Service) Get(ctx context.Context, owner string, id uuid.UUID) (*Submission, error) {
	sub, err := s.lookup(owner, id)
	if err != nil {
		return nil, err
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.snapshot(), nil
}

// lookup resolves the live submission. Callers mutating it must hold its
// lock and never hand the pointer back out.
func (s *Service) lookup(owner string, id uuid.UUID) (*Submission, error) {
	s.mu.RLock()
	sub, ok := s.subs[id]
	s.mu.RUnlock()

	if !ok || sub.Owner != owner {
		return nil, models.ErrNotFound
	}
	return sub, nil
}

// Attach fills a slot with an upload and runs that blob's leg of the
// pipeline to completion: audio is normalized and transcribed, documents
// have their text extracted. The call blocks for the whole recognition round
// trip. A recognition failure still lands the submission in AwaitingReview,
// carrying a tagged failure result instead of text. The submission stays
// locked for the whole leg, so a second upload for it waits its turn.
func (s *Service) Attach(ctx context.Context, owner string, id uuid.UUID, role models.Role, blob *models.MediaBlob) (*Slot, error) {
	sub, err := s.lookup(owner, id)
	if err != nil {
		return nil, err
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.State == models.StateDone || sub.State == models.StateArchiving {
		return nil, models.ErrAlreadySubmitted
	}

	if !normalizer.AllowedForRole(role, blob.Ext) {
		return nil, fmt.Errorf("%w: .%s not accepted for %s", models.ErrDecode, blob.Ext, role)
	}

	slot := &Slot{Blob: blob}

	if notetext.Supported(blob.Ext) {
		// Document condition notes are already-final text.
		text, err := notetext.Extract(blob.Bytes, blob.Ext)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrDecode, err)
		}
		slot.Transcript = &transcriber.Result{Outcome: transcriber.OutcomeText, Text: text}
	} else {
		prev := sub.State
		sub.State = models.StateNormalizing
		path, err := s.norm.Normalize(ctx, blob)
		if err != nil {
			sub.State = prev
			return nil, err
		}
		slot.NormalizedPath = path

		sub.State = models.StateTranscribing
		result, err := s.stt.Transcribe(ctx, transcriber.Request{
			AudioPath: path,
			Language:  s.language,
		})
		if err != nil {
			// Local failure reading the normalized file. Terminal for
			// this blob, same as the service being unreachable.
			slog.Error("transcription failed", "id", sub.ID, "role", role, "error", err)
			result = &transcriber.Result{Outcome: transcriber.OutcomeUnavailable}
		}
		slot.Transcript = result
	}

	sub.Slots[role] = slot
	sub.State = models.StateAwaitingReview

	slog.Info("upload processed",
		"id", sub.ID,
		"role", role,
		"file", blob.OriginalName,
		"outcome", slot.Transcript.Outcome,
	)
	c := *slot
	return &c, nil
}

// Review replaces a slot's text with the user's edit. No merge, no diffing,
// no history: the reviewed value is authoritative.
func (s *Service) Review(ctx context.Context, owner string, id uuid.UUID, role models.Role, text string) error {
	sub, err := s.lookup(owner, id)
	if err != nil {
		return err
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.State == models.StateDone || sub.State == models.StateArchiving {
		return models.ErrAlreadySubmitted
	}

	slot, ok := sub.Slots[role]
	if !ok {
		return models.ErrSlotEmpty
	}
	slot.FinalText = text
	slot.Reviewed = true
	return nil
}

// Submit enforces the both-files precondition, archives both originals and
// reports the stored names with the final texts. A missing slot rejects the
// whole submission before any write; there is no partial archive on the
// rejection path. The two writes themselves are independent, with no
// all-or-nothing guarantee if the process dies between them.
func (s *Service) Submit(ctx context.Context, owner string, id uuid.UUID) (*Receipt, error) {
	sub, err := s.lookup(owner, id)
	if err != nil {
		return nil, err
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.State == models.StateDone {
		return nil, models.ErrAlreadySubmitted
	}

	voice := sub.Slots[models.RoleVoice]
	condition := sub.Slots[models.RoleCondition]
	if voice == nil || condition == nil {
		sub.State = models.StateRejected
		return nil, models.ErrMissingUpload
	}

	sub.State = models.StateArchiving
	at := time.Now()

	voiceArt, err := s.arc.Store(models.RoleVoice, at, voice.Blob)
	if err != nil {
		sub.State = models.StateAwaitingReview
		return nil, err
	}
	conditionArt, err := s.arc.Store(models.RoleCondition, at, condition.Blob)
	if err != nil {
		sub.State = models.StateAwaitingReview
		return nil, err
	}

	sub.State = models.StateDone
	slog.Info("submission archived",
		"id", sub.ID,
		"voice", voiceArt.StoredName,
		"condition", conditionArt.StoredName,
	)

	return &Receipt{
		Voice:         voiceArt,
		Condition:     conditionArt,
		VoiceText:     voice.DisplayText(),
		ConditionText: condition.DisplayText(),
	}, nil
}
