package transcriber

import "context"

// Outcome tags a transcription result. Recognition failures are ordinary,
// inspectable results rather than errors: they are terminal for one blob but
// the submission keeps moving.
type Outcome string

const (
	// OutcomeText: speech was recognized; Result.Text holds it.
	OutcomeText Outcome = "text"
	// OutcomeNoSpeech: audio decoded fine but no intelligible speech.
	OutcomeNoSpeech Outcome = "no_speech"
	// OutcomeUnavailable: the recognition service was unreachable or
	// rejected the request. No automatic retry.
	OutcomeUnavailable Outcome = "service_unavailable"
)

// Messages shown in place of text when recognition fails. Rendered only at
// the presentation edge; the pipeline keeps the tagged outcome.
const (
	NoSpeechMessage    = "Could not understand the audio"
	UnavailableMessage = "Could not request results from the speech recognition service"
)

// Request asks for the full duration of one canonical wav file as a single
// recognition unit. No chunking, no streaming partials.
type Request struct {
	AudioPath string `json:"audio_path"`
	Language  string `json:"language"` // BCP-47 tag, e.g. "hi-IN"
}

// Result is the tagged transcription outcome for one audio blob.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Text    string  `json:"text,omitempty"`
}

// DisplayText renders the result the way the review form shows it.
func (r *Result) DisplayText() string {
	switch r.Outcome {
	case OutcomeNoSpeech:
		return NoSpeechMessage
	case OutcomeUnavailable:
		return UnavailableMessage
	default:
		return r.Text
	}
}

// Provider is the interface for speech-to-text backends. The call blocks for
// the whole remote round trip. A non-nil error means a local problem (for
// example an unreadable audio file); service-side failures come back as
// tagged Results.
type Provider interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
	Name() string
}
