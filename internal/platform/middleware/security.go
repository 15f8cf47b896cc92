// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"
)

// contentSecurityPolicy admits the third-party hosts the rendered pages load from.
var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self' https:",
	"base-uri 'self'",
	"font-src 'self' https: data:",
	"form-action 'self'",
	"frame-ancestors 'self'",
	"frame-src 'self' https://js.stripe.com",
	"img-src 'self' data: blob: https://*.tile.openstreetmap.org https://unpkg.com",
	"object-src 'none'",
	"script-src 'self' https://unpkg.com https://js.stripe.com https://cdnjs.cloudflare.com",
	"style-src 'self' https: 'unsafe-inline'",
	"connect-src 'self' https://unpkg.com ws://localhost:*",
	"upgrade-insecure-requests",
}, "; ")

// SecureHeaders sets the standard hardening response headers.
func SecureHeaders(production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := writer.Header()
			header.Set("Content-Security-Policy", contentSecurityPolicy)
			header.Set("Cross-Origin-Opener-Policy", "same-origin")
			header.Set("Cross-Origin-Resource-Policy", "same-origin")
			header.Set("Referrer-Policy", "no-referrer")
			header.Set("X-Content-Type-Options", "nosniff")
			header.Set("X-DNS-Prefetch-Control", "off")
			header.Set("X-Download-Options", "noopen")
			header.Set("X-Frame-Options", "SAMEORIGIN")
			header.Set("X-Permitted-Cross-Domain-Policies", "none")
			header.Set("X-XSS-Protection", "0")

			if production {
				header.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
			}

			next.ServeHTTP(writer, request)
		})
	}
}
