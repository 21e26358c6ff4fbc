package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "users.json", cfg.Auth.CredentialsFile)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "uploads", cfg.Archive.Dir)
	assert.Equal(t, "google", cfg.Recognizer.Backend)
	assert.Equal(t, "hi-IN", cfg.Recognizer.Language)
	assert.Equal(t, int64(32<<20), cfg.Upload.MaxBytes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AUTH_TOKEN_TTL", "30m")
	t.Setenv("RECOGNIZER_BACKEND", "whisper")
	t.Setenv("RECOGNIZER_LANGUAGE", "en-IN")
	t.Setenv("UPLOAD_MAX_MB", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "whisper", cfg.Recognizer.Backend)
	assert.Equal(t, "en-IN", cfg.Recognizer.Language)
	assert.Equal(t, int64(8<<20), cfg.Upload.MaxBytes)
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err, "JWT secret and recognizer key are required")

	cfg.Auth.JWTSecret = "s"
	cfg.Recognizer.GoogleKey = "k"
	require.NoError(t, cfg.Validate())

	cfg.Recognizer.Backend = "whisper"
	cfg.Recognizer.OpenAIKey = ""
	cfg.Recognizer.OpenAIBaseURL = ""
	require.Error(t, cfg.Validate())

	cfg.Recognizer.OpenAIBaseURL = "http://localhost:8178"
	require.NoError(t, cfg.Validate(), "local whisper endpoints need no key")

	cfg.Recognizer.Backend = "siri"
	require.Error(t, cfg.Validate())
}
