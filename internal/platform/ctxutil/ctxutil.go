// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/trailhead/internal/platform/sec"
)

// key is the unexported type of every value this package stores, so no other
// package can read or overwrite them by accident.
type key uint8

const (
	keyRequestID key = iota
	keyLogger
	keyVerbose
	keyPrincipal
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(keyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Error Verbosity

// WithVerbose marks the context so that error responses include internal detail.
func WithVerbose(ctx context.Context, verbose bool) context.Context {
	return context.WithValue(ctx, keyVerbose, verbose)
}

// IsVerbose reports whether error responses may include internal detail.
func IsVerbose(ctx context.Context) bool {
	verbose, _ := ctx.Value(keyVerbose).(bool)
	return verbose
}

// # Identity & Access

// WithPrincipal returns a new context with the resolved principal attached.
func WithPrincipal(ctx context.Context, principal *sec.Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, principal)
}

// GetPrincipal retrieves the [*sec.Principal] from the [context.Context].
// It returns nil for anonymous requests.
func GetPrincipal(ctx context.Context) *sec.Principal {
	principal, ok := ctx.Value(keyPrincipal).(*sec.Principal)
	if !ok {
		return nil
	}
	return principal
}
