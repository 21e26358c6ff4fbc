package transcriber

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperConfig holds configuration for the OpenAI Whisper backend.
type WhisperConfig struct {
	APIKey  string
	BaseURL string // optional, for whisper-compatible endpoints
	Model   string // default: whisper-1
}

// Whisper transcribes audio through the OpenAI audio API (or a compatible
// endpoint such as a local whisper server).
type Whisper struct {
	client *openai.Client
	model  string
}

// NewWhisper creates a Whisper backend with defaults applied.
func NewWhisper(cfg WhisperConfig) *Whisper {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &Whisper{
		client: openai.NewClientWithConfig(c),
		model:  model,
	}
}

func (w *Whisper) Name() string { return "openai-whisper" }

func (w *Whisper) Transcribe(ctx context.Context, req Request) (*Result, error) {
	if _, err := os.Stat(req.AudioPath); err != nil {
		return nil, fmt.Errorf("audio file: %w", err)
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: req.AudioPath,
		Language: iso639(req.Language),
	})
	if err != nil {
		return &Result{Outcome: OutcomeUnavailable}, nil
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return &Result{Outcome: OutcomeNoSpeech}, nil
	}
	return &Result{Outcome: OutcomeText, Text: text}, nil
}

// iso639 reduces a BCP-47 tag like "hi-IN" to the bare language code the
// audio API expects.
func iso639(tag string) string {
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}
