// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Trailhead HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when configured.
//  5. Run database migrations (idempotent).
//  6. Wire mail, payments and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/trailhead/internal/api"
	"github.com/taibuivan/trailhead/internal/platform/config"
	"github.com/taibuivan/trailhead/internal/platform/constants"
	"github.com/taibuivan/trailhead/internal/platform/metrics"
	"github.com/taibuivan/trailhead/internal/platform/middleware"
	"github.com/taibuivan/trailhead/internal/platform/migration"
	"github.com/taibuivan/trailhead/internal/platform/notify"
	"github.com/taibuivan/trailhead/internal/platform/payment"
	pgstore "github.com/taibuivan/trailhead/internal/platform/postgres"
	redisstore "github.com/taibuivan/trailhead/internal/platform/redis"
	"github.com/taibuivan/trailhead/internal/platform/sec"
	"github.com/taibuivan/trailhead/internal/tours/booking"
	"github.com/taibuivan/trailhead/internal/tours/review"
	"github.com/taibuivan/trailhead/internal/tours/tour"
	"github.com/taibuivan/trailhead/internal/users/account"
	"github.com/taibuivan/trailhead/internal/users/auth"
	"github.com/taibuivan/trailhead/internal/view"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("payments_enabled", cfg.PaymentsEnabled()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives as long as the process; stops background sweepers on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis & Rate Limiter ───────────────────────────────────────────
	recorder := metrics.New()
	health := api.HealthDependencies{
		CheckDatabase: func(context context.Context) error {
			return pgstore.Ping(context, pool)
		},
	}

	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}()

		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
		health.CheckCache = func(context context.Context) error {
			return redisstore.Ping(context, rdb)
		}
	} else {
		limiter = middleware.NewMemoryLimiter(rootCtx, cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Outbound Services ──────────────────────────────────────────────
	var mailer notify.Mailer = notify.NewLogMailer(log)
	if cfg.SMTPHost != "" {
		smtpMailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, log)
		must(log, err, "initialize smtp mailer")
		mailer = smtpMailer
	}
	mailer = notify.Observe(mailer, recorder)

	var gateway payment.Gateway
	if cfg.PaymentsEnabled() {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	}

	tokens := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, time.Now)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	users := auth.NewUserRepository(pool)
	authService := auth.NewService(users, tokens, mailer, log, auth.Options{
		TokenTTL:  cfg.JWTExpiresIn,
		PublicURL: cfg.PublicURL,
	})
	guard := auth.NewGuard(authService)
	authHandler := auth.NewHandler(authService, guard, auth.CookieOptions{
		TTL:    cfg.CookieTTL(),
		Secure: cfg.IsProduction(),
	})

	directory := account.NewDirectory(pool)
	accountHandler := account.NewHandler(account.NewService(directory, log), directory, guard)

	catalogue := tour.NewCatalogue(pool)
	tourHandler := tour.NewHandler(catalogue, guard)

	reviewHandler := review.NewHandler(review.NewRatedStore(pool), guard)

	bookings := booking.NewStore(pool)
	bookingService := booking.NewService(bookings, catalogue, users, gateway, recorder, log, cfg.PublicURL)
	bookingHandler := booking.NewHandler(bookingService, booking.Counted(bookings, recorder, "admin"), guard)

	renderer, err := view.NewRenderer()
	must(log, err, "parse page templates")
	viewHandler := view.NewHandler(renderer, catalogue, bookingService, guard)

	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, limiter, recorder, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Accounts:  accountHandler,
		Tours:     tourHandler,
		Reviews:   reviewHandler,
		Bookings:  bookingHandler,
		Views:     viewHandler,
	})

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger every entry of which carries the app name.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String(constants.FieldApp, constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
