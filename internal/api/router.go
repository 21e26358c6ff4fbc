package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/swasthlog/internal/api/handlers"
	"github.com/nikhilbhutani/swasthlog/internal/api/middleware"
	"github.com/nikhilbhutani/swasthlog/internal/archive"
	"github.com/nikhilbhutani/swasthlog/internal/auth"
	"github.com/nikhilbhutani/swasthlog/internal/config"
	"github.com/nikhilbhutani/swasthlog/internal/executor"
	"github.com/nikhilbhutani/swasthlog/internal/normalizer"
	"github.com/nikhilbhutani/swasthlog/internal/pipeline"
	"github.com/nikhilbhutani/swasthlog/internal/transcriber"
)

type Router struct {
	mux   *chi.Mux
	cfg   *config.Config
	arc   *archive.Archive
	creds auth.CredentialStore
	jwt   *auth.JWTMiddleware
	pl    *pipeline.Service
}

func NewRouter(cfg *config.Config, arc *archive.Archive) *Router {
	norm := normalizer.New(executor.New(), arc.WorkDir())
	stt := newProvider(cfg.Recognizer)
	return &Router{
		mux:   chi.NewRouter(),
		cfg:   cfg,
		arc:   arc,
		creds: auth.NewFileStore(cfg.Auth.CredentialsFile),
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		pl:    pipeline.NewService(norm, stt, arc, cfg.Recognizer.Language),
	}
}

func newProvider(cfg config.RecognizerConfig) transcriber.Provider {
	if cfg.Backend == "whisper" {
		return transcriber.NewWhisper(transcriber.WhisperConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.WhisperModel,
		})
	}
	return transcriber.NewGoogleSpeech(transcriber.GoogleConfig{
		APIKey:  cfg.GoogleKey,
		BaseURL: cfg.GoogleBaseURL,
	})
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(50, 100)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.arc)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	authH := handlers.NewAuthHandler(rt.creds, rt.jwt)
	r.Post("/api/v1/auth/login", authH.Login)

	// Pipeline routes; every state transition requires an identity token.
	subH := handlers.NewSubmissionHandler(rt.pl, rt.cfg.Upload.MaxBytes)
	r.Route("/api/v1/submissions", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		r.Post("/", subH.Create)
		r.Get("/{id}", subH.Get)
		r.Post("/{id}/uploads", subH.Upload)
		r.Put("/{id}/review", subH.Review)
		r.Post("/{id}/submit", subH.Submit)
		r.Get("/{id}/transcript.docx", subH.ExportDocx)
	})

	return r
}
