package transcriber

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWav builds a minimal canonical wav: RIFF header, fmt chunk, data chunk.
func testWav(t *testing.T, rate int, pcm []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	b.WriteString("RIFF")
	require.NoError(t, binary.Write(&b, binary.LittleEndian, uint32(36+len(pcm))))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	for _, v := range []interface{}{
		uint32(16),         // chunk size
		uint16(1),          // PCM
		uint16(1),          // mono
		uint32(rate),       // sample rate
		uint32(rate * 2),   // byte rate
		uint16(2),          // block align
		uint16(16),         // bits per sample
	} {
		require.NoError(t, binary.Write(&b, binary.LittleEndian, v))
	}
	b.WriteString("data")
	require.NoError(t, binary.Write(&b, binary.LittleEndian, uint32(len(pcm))))
	b.Write(pcm)
	return b.Bytes()
}

func writeWavFile(t *testing.T, rate int, pcm []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, testWav(t, rate, pcm), 0o644))
	return path
}

func TestGoogle_RecognizedSpeech(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}

	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		assert.Equal(t, "hi-IN", r.URL.Query().Get("lang"))

		// First line is the usual empty placeholder.
		io.WriteString(w, `{"result":[]}`+"\n")
		io.WriteString(w, `{"result":[{"alternative":[{"transcript":"खा लिया","confidence":0.91}],"final":true}],"result_index":0}`+"\n")
	}))
	defer srv.Close()

	g := NewGoogleSpeech(GoogleConfig{APIKey: "k", BaseURL: srv.URL})
	res, err := g.Transcribe(context.Background(), Request{
		AudioPath: writeWavFile(t, 16000, pcm),
		Language:  "hi-IN",
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeText, res.Outcome)
	assert.Equal(t, "खा लिया", res.Text)
	assert.Equal(t, "audio/l16; rate=16000", gotContentType)
	assert.Equal(t, pcm, gotBody, "raw PCM goes up, not the RIFF header")
}

func TestGoogle_EmptyRecognitionIsNoSpeech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":[]}`+"\n")
	}))
	defer srv.Close()

	g := NewGoogleSpeech(GoogleConfig{APIKey: "k", BaseURL: srv.URL})
	res, err := g.Transcribe(context.Background(), Request{
		AudioPath: writeWavFile(t, 16000, []byte{0, 0, 0, 0}),
		Language:  "hi-IN",
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoSpeech, res.Outcome)
	assert.Equal(t, NoSpeechMessage, res.DisplayText())
}

func TestGoogle_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	g := NewGoogleSpeech(GoogleConfig{APIKey: "bad", BaseURL: srv.URL})
	res, err := g.Transcribe(context.Background(), Request{
		AudioPath: writeWavFile(t, 16000, []byte{1, 2}),
		Language:  "hi-IN",
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeUnavailable, res.Outcome)
	assert.Equal(t, UnavailableMessage, res.DisplayText())
}

func TestGoogle_UnreachableServiceIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening any more

	g := NewGoogleSpeech(GoogleConfig{APIKey: "k", BaseURL: srv.URL})
	res, err := g.Transcribe(context.Background(), Request{
		AudioPath: writeWavFile(t, 16000, []byte{1, 2}),
		Language:  "hi-IN",
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeUnavailable, res.Outcome)
}

func TestGoogle_MissingFileIsLocalError(t *testing.T) {
	g := NewGoogleSpeech(GoogleConfig{APIKey: "k"})
	_, err := g.Transcribe(context.Background(), Request{
		AudioPath: filepath.Join(t.TempDir(), "nope.wav"),
		Language:  "hi-IN",
	})
	require.Error(t, err)
}

func TestPcmFromWav_RejectsGarbage(t *testing.T) {
	_, _, err := pcmFromWav([]byte("definitely not audio"))
	require.Error(t, err)

	_, _, err = pcmFromWav(testWav(t, 0, nil)[:12]) // header only
	require.Error(t, err)
}

func TestPcmFromWav_ReadsRateAndPayload(t *testing.T) {
	pcm := []byte{9, 8, 7, 6, 5, 4}
	rate, got, err := pcmFromWav(testWav(t, 44100, pcm))
	require.NoError(t, err)
	assert.Equal(t, 44100, rate)
	assert.Equal(t, pcm, got)
}
