package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	Archive    ArchiveConfig
	Recognizer RecognizerConfig
	Upload     UploadConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	CredentialsFile string
}

type ArchiveConfig struct {
	Dir string
}

type RecognizerConfig struct {
	Backend       string // "google" or "whisper"
	Language      string // BCP-47, default "hi-IN"
	GoogleKey     string
	GoogleBaseURL string
	OpenAIKey     string
	OpenAIBaseURL string
	WhisperModel  string
}

type UploadConfig struct {
	MaxBytes int64
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	tokenTTL, err := getEnvDuration("AUTH_TOKEN_TTL", 12*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_TTL: %w", err)
	}

	maxUpload, err := getEnvInt("UPLOAD_MAX_MB", 32)
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_MB: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", ""),
			TokenTTL:        tokenTTL,
			CredentialsFile: getEnv("USERS_FILE", "users.json"),
		},
		Archive: ArchiveConfig{
			Dir: getEnv("ARCHIVE_DIR", "uploads"),
		},
		Recognizer: RecognizerConfig{
			Backend:       getEnv("RECOGNIZER_BACKEND", "google"),
			Language:      getEnv("RECOGNIZER_LANGUAGE", "hi-IN"),
			GoogleKey:     getEnv("GOOGLE_SPEECH_KEY", ""),
			GoogleBaseURL: getEnv("GOOGLE_SPEECH_URL", ""),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("STT_OPENAI_BASE_URL", ""),
			WhisperModel:  getEnv("STT_OPENAI_MODEL", ""),
		},
		Upload: UploadConfig{
			MaxBytes: int64(maxUpload) << 20,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}
	switch c.Recognizer.Backend {
	case "google":
		if c.Recognizer.GoogleKey == "" {
			missing = append(missing, "GOOGLE_SPEECH_KEY")
		}
	case "whisper":
		if c.Recognizer.OpenAIKey == "" && c.Recognizer.OpenAIBaseURL == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown RECOGNIZER_BACKEND: %q", c.Recognizer.Backend)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
