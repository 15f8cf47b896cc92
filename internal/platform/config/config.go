// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, token service, mailer) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Trailhead server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// PublicURL is the externally reachable base URL, used in mail links and
	// payment redirects.
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// StaticPath holds the stylesheets and images served to the pages.
	StaticPath string `env:"STATIC_PATH" envDefault:"./public"`

	// Key-Value Cache (Redis). Optional: without it the rate limiter runs in memory.
	RedisURL string `env:"REDIS_URL"`

	// Session tokens
	JWTSecret       string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiresIn    time.Duration `env:"JWT_EXPIRES_IN"          envDefault:"2160h"`
	CookieExpiresIn int           `env:"COOKIE_EXPIRES_IN_DAYS"  envDefault:"90"`

	// Outbound mail. An empty host selects the log mailer.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"      envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"      envDefault:"Trailhead <hello@trailhead.io>"`

	// Payment provider. An empty key disables checkout routes.
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	// API rate limiting
	RateLimitMax    int           `env:"RATE_LIMIT_MAX"     envDefault:"100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW"  envDefault:"1h"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field constraints env tags cannot express.
func (c *Config) validate() error {
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be at least 32 characters in production")
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("config: JWT_EXPIRES_IN must be positive")
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("config: rate limit settings must be positive")
	}
	return nil
}

// CookieTTL returns the lifetime of the session cookie.
func (c *Config) CookieTTL() time.Duration {
	return time.Duration(c.CookieExpiresIn) * 24 * time.Hour
}

// AllowedOrigins lists the origins CORS accepts outside development.
func (c *Config) AllowedOrigins() []string {
	return append([]string{c.PublicURL}, c.ExtraOrigins...)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PaymentsEnabled reports whether a payment provider key is configured.
func (c *Config) PaymentsEnabled() bool {
	return c.StripeSecretKey != ""
}
