package normalizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikhilbhutani/swasthlog/internal/executor"
	"github.com/nikhilbhutani/swasthlog/internal/models"
	"github.com/nikhilbhutani/swasthlog/internal/notetext"
)

// CanonicalFormat is the single waveform container the pipeline standardizes
// on before transcription.
const CanonicalFormat = "wav"

var audioExts = map[string]bool{
	"wav": true,
	"mp3": true,
	"ogg": true,
	"m4a": true,
}

// IsAudio reports whether ext names a supported audio container.
func IsAudio(ext string) bool { return audioExts[strings.ToLower(ext)] }

// AllowedForRole reports whether ext is an accepted upload type for the
// given slot. The condition slot additionally accepts document formats,
// which bypass audio normalization entirely.
func AllowedForRole(role models.Role, ext string) bool {
	if IsAudio(ext) {
		return true
	}
	return role == models.RoleCondition && notetext.Supported(ext)
}

// Normalizer converts uploaded audio into canonical wav files in the
// archive's working area.
type Normalizer struct {
	exec    executor.Executor
	workDir string
}

func New(exec executor.Executor, workDir string) *Normalizer {
	return &Normalizer{exec: exec, workDir: workDir}
}

// Normalize writes the blob into the working area and returns the path of a
// canonical wav for it. Canonical input is written verbatim, no transcoding.
// Anything else is decoded from its declared container and re-encoded with
// ffmpeg. Exactly one working-area file remains per call; these byproduct
// writes are not deduplicated across calls.
//
// Unsupported or corrupt containers fail with an error wrapping
// models.ErrDecode; the caller must not proceed to transcription.
func (n *Normalizer) Normalize(ctx context.Context, blob *models.MediaBlob) (string, error) {
	ext := strings.ToLower(blob.Ext)
	if !audioExts[ext] {
		return "", fmt.Errorf("%w: .%s", models.ErrDecode, ext)
	}

	src := filepath.Join(n.workDir, blob.OriginalName)
	if err := os.WriteFile(src, blob.Bytes, 0o644); err != nil {
		return "", fmt.Errorf("write upload to working area: %w", err)
	}

	if ext == CanonicalFormat {
		return src, nil
	}

	out := strings.TrimSuffix(src, filepath.Ext(src)) + "." + CanonicalFormat

	// Mono 16kHz PCM, the input format recognition backends expect.
	// ffmpeg infers the source container from the file, not magic bytes.
	_, err := n.exec.Run(ctx, "ffmpeg",
		"-i", src,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"-y",
		out,
	)
	os.Remove(src)
	if err != nil {
		os.Remove(out)
		return "", fmt.Errorf("%w: transcode %s: %v", models.ErrDecode, blob.OriginalName, err)
	}
	return out, nil
}
