// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

The JSON API lives under /api/v1 behind the rate limiter and body limit.
The payment webhook, probes, metrics, static assets and rendered pages are
mounted at the root.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/trailhead/internal/platform/config"
	"github.com/taibuivan/trailhead/internal/platform/constants"
	"github.com/taibuivan/trailhead/internal/platform/metrics"
	"github.com/taibuivan/trailhead/internal/platform/middleware"
	"github.com/taibuivan/trailhead/internal/tours/booking"
	"github.com/taibuivan/trailhead/internal/tours/review"
	"github.com/taibuivan/trailhead/internal/tours/tour"
	"github.com/taibuivan/trailhead/internal/users/account"
	"github.com/taibuivan/trailhead/internal/users/auth"
	"github.com/taibuivan/trailhead/internal/view"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all dependencies are healthy.
	Readiness http.HandlerFunc

	// Auth handles signup, login and password flows.
	Auth *auth.Handler

	// Accounts handles the profile and admin user routes.
	Accounts *account.Handler

	// Tours manages the tour catalogue.
	Tours *tour.Handler

	// Reviews manages reviews, top-level and nested under tours.
	Reviews *review.Handler

	// Bookings handles checkout, the payment webhook and staff bookings.
	Bookings *booking.Handler

	// Views renders the HTML pages.
	Views *view.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, limiter middleware.Limiter, recorder *metrics.Recorder, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(recorder.Middleware)
	r.Use(middleware.SecureHeaders(cfg.IsProduction()))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Verbosity(cfg.IsDevelopment()))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes and the Prometheus scrape target.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", recorder.Handler())

	// # Payment Callback
	// Mounted ahead of the API body limit; the signature covers the raw body.
	h.Bookings.RegisterWebhook(r)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.RateLimit(limiter, cfg.RateLimitMax, recorder))
		api.Use(middleware.BodyLimit(constants.MaxJSONBodyBytes))

		api.Route("/tours", func(tours chi.Router) {
			h.Tours.Register(tours)
			tours.Route("/{tourId}/reviews", h.Reviews.Register)
		})
		api.Route("/reviews", h.Reviews.Register)
		api.Route("/bookings", h.Bookings.Register)
		api.Route("/users", func(users chi.Router) {
			h.Auth.Register(users)
			h.Accounts.Register(users)
		})
	})

	// # Pages
	static := http.FileServer(http.Dir(cfg.StaticPath))
	r.Handle("/css/*", static)
	r.Handle("/img/*", static)
	h.Views.Register(r)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
