// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, header names, and cross-cutting keys that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: In-memory limiter housekeeping.
  - Security: JWT issuer, cookie names and body limits.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "trailhead-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often idle IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RedisPrefixRateLimit namespaces fixed-window counters in Redis.
	RedisPrefixRateLimit = "ratelimit:ip:"
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "trailhead.io"

	// SessionCookieName is the cookie that carries the session token.
	SessionCookieName = "jwt"

	// LoggedOutCookieValue overwrites the session cookie on logout.
	LoggedOutCookieValue = "loggedout"

	// LoggedOutCookieTTL is the lifetime of the overwriting cookie.
	LoggedOutCookieTTL = 10 * time.Second

	// ResetTokenLength is the byte length of a password reset token.
	ResetTokenLength = 32

	// ResetTokenTTL is how long a password reset token stays usable.
	ResetTokenTTL = 10 * time.Minute

	// PasswordChangeSkew backdates password_changed_at so that a token issued
	// in the same second as the change still verifies.
	PasswordChangeSkew = 1 * time.Second
)

// # Request Limits

const (
	// MaxJSONBodyBytes caps API request bodies.
	MaxJSONBodyBytes = 10 << 10

	// MaxWebhookBodyBytes caps payment webhook bodies.
	MaxWebhookBodyBytes = 64 << 10
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderStripeSig     = "Stripe-Signature"
)

// # Query Parameters

const (
	// DefaultTourSort orders tour listings when no sort is requested.
	DefaultTourSort = "ratings_average"

	// DefaultSort orders every other listing.
	DefaultSort = "created_at"
)

// # JSON Field Identifiers

const (
	FieldStatus  = "status"
	FieldChecks  = "checks"
	FieldApp     = "app"
	FieldVersion = "version"
)
