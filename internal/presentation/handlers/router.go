package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

// RouterConfig collects the handlers and HTTP settings of the API
type RouterConfig struct {
	Health  *HealthHandler
	Tokens  *TokensHandler
	Quote   *QuoteHandler
	Session *SessionHandler // nil when no signer is configured
	Metrics http.Handler

	RatePerMinute  int
	AllowedOrigins []string
	Log            zerolog.Logger
}

// NewRouter builds the chi router for the API
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Log))
	r.Use(Recoverer(cfg.Log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(CORS(cfg.AllowedOrigins))
	if cfg.RatePerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RatePerMinute, time.Minute))
	}

	// Routes
	r.Get("/health", cfg.Health.Health)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tokens", cfg.Tokens.ListTokens)
		r.Get("/quote", cfg.Quote.GetQuote)

		if cfg.Session == nil {
			return
		}
		r.Route("/session", func(r chi.Router) {
			r.Put("/selection", cfg.Session.PutSelection)
			r.Get("/quote", cfg.Session.GetQuote)
			r.Get("/gate", cfg.Session.GetGate)
			r.Post("/approve", cfg.Session.Approve)
			r.Post("/swap", cfg.Session.Swap)
		})
	})

	return r
}
