package models

import "errors"

// Error taxonomy for the submission pipeline. Everything here is scoped to a
// single request or submission; nothing is fatal to the process.
var (
	// ErrAuthFailure: no credential record matches the given pair.
	ErrAuthFailure = errors.New("invalid mobile number or password")

	// ErrMissingUpload: Submit pressed without both slots filled. No
	// archive write happens when this is returned.
	ErrMissingUpload = errors.New("both voice and condition uploads are required")

	// ErrDecode: the uploaded container is unsupported or corrupt. The
	// blob's pipeline stops before transcription; the submission survives.
	ErrDecode = errors.New("unsupported or corrupt media container")

	// ErrNotFound: unknown submission id, or one owned by someone else.
	ErrNotFound = errors.New("submission not found")

	// ErrAlreadySubmitted: the submission reached Done; it is immutable.
	ErrAlreadySubmitted = errors.New("submission already archived")

	// ErrSlotEmpty: review or export addressed a slot with no upload yet.
	ErrSlotEmpty = errors.New("no upload in that slot")
)
