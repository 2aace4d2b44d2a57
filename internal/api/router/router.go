// Package router assembles the HTTP API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openpharm/medscheck-forms/internal/http/handlers"
	httpmiddleware "github.com/openpharm/medscheck-forms/internal/http/middleware"
	"github.com/openpharm/medscheck-forms/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	Records        *handlers.RecordsHandler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.Records.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/records", func(r chi.Router) {
		r.Post("/", cfg.Records.Create)
		r.Get("/", cfg.Records.List)
		r.Route("/{recordID}", func(r chi.Router) {
			r.Get("/", cfg.Records.Get)
			r.Put("/", cfg.Records.Update)
			r.Delete("/", cfg.Records.Delete)
			r.Post("/extract", cfg.Records.Extract)
		})
	})

	return r
}
