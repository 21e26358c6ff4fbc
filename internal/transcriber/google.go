package transcriber

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// GoogleConfig holds configuration for the Google Web Speech backend.
type GoogleConfig struct {
	APIKey  string
	BaseURL string // default: "http://www.google.com/speech-api/v2/recognize"
}

// GoogleSpeech transcribes audio with the Google Web Speech API, the same
// service the Chromium speech input uses. One synchronous round trip per
// file; the whole PCM payload goes up in a single request.
type GoogleSpeech struct {
	cfg        GoogleConfig
	httpClient *http.Client
}

// NewGoogleSpeech creates a GoogleSpeech with defaults applied.
func NewGoogleSpeech(cfg GoogleConfig) *GoogleSpeech {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://www.google.com/speech-api/v2/recognize"
	}
	return &GoogleSpeech{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (g *GoogleSpeech) Name() string { return "google-web-speech" }

// Transcribe posts the wav's PCM samples and returns the first recognition
// alternative. An empty recognition set maps to OutcomeNoSpeech; transport
// errors and non-200 statuses map to OutcomeUnavailable. Neither is retried.
func (g *GoogleSpeech) Transcribe(ctx context.Context, req Request) (*Result, error) {
	data, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	rate, pcm, err := pcmFromWav(data)
	if err != nil {
		return nil, fmt.Errorf("parse wav %s: %w", req.AudioPath, err)
	}

	endpoint := fmt.Sprintf("%s?client=chromium&lang=%s&key=%s",
		g.cfg.BaseURL, url.QueryEscape(req.Language), url.QueryEscape(g.cfg.APIKey))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(pcm))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d", rate))

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return &Result{Outcome: OutcomeUnavailable}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Result{Outcome: OutcomeUnavailable}, nil
	}

	text, ok := parseRecognition(resp.Body)
	if !ok {
		return &Result{Outcome: OutcomeNoSpeech}, nil
	}
	return &Result{Outcome: OutcomeText, Text: text}, nil
}

// parseRecognition scans the line-delimited JSON the service streams back
// and returns the first non-empty alternative. The first line is usually an
// empty {"result":[]} placeholder.
func parseRecognition(body io.Reader) (string, bool) {
	type alternative struct {
		Transcript string `json:"transcript"`
	}
	type recognition struct {
		Result []struct {
			Alternative []alternative `json:"alternative"`
			Final       bool          `json:"final"`
		} `json:"result"`
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec recognition
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		for _, r := range rec.Result {
			for _, alt := range r.Alternative {
				if t := strings.TrimSpace(alt.Transcript); t != "" {
					return t, true
				}
			}
		}
	}
	return "", false
}

// pcmFromWav walks the RIFF chunks of a canonical wav file and returns the
// sample rate and raw PCM payload.
func pcmFromWav(data []byte) (int, []byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var rate int
	var pcm []byte
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		rest := data[off+8:]
		if size > len(rest) {
			size = len(rest)
		}
		switch id {
		case "fmt ":
			if size >= 8 {
				rate = int(binary.LittleEndian.Uint32(rest[4:8]))
			}
		case "data":
			pcm = rest[:size]
		}
		off += 8 + size
		if size%2 == 1 {
			off++ // chunks are word-aligned
		}
	}

	if rate == 0 {
		return 0, nil, fmt.Errorf("missing fmt chunk")
	}
	if pcm == nil {
		return 0, nil, fmt.Errorf("missing data chunk")
	}
	return rate, pcm, nil
}
