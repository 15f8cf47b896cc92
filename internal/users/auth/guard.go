// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/constants"
	"github.com/taibuivan/trailhead/internal/platform/ctxutil"
	"github.com/taibuivan/trailhead/internal/platform/middleware"
	"github.com/taibuivan/trailhead/internal/platform/sec"
)

// Authenticator resolves a session token to its principal.
type Authenticator interface {
	Authenticate(context context.Context, token string) (*sec.Principal, error)
}

// Guard produces the pipeline stages that protect routes.
type Guard struct {
	authenticator Authenticator
}

// NewGuard creates a guard over authenticator.
func NewGuard(authenticator Authenticator) *Guard {
	return &Guard{authenticator: authenticator}
}

// Protect requires a valid session token from the Authorization header or
// the session cookie and attaches the principal to the request.
func (guard *Guard) Protect() middleware.Stage {
	return func(_ http.ResponseWriter, request *http.Request) (*http.Request, error) {
		token := bearerToken(request)
		if token == "" {
			token = cookieToken(request)
		}
		if token == "" {
			return nil, apperr.Unauthenticated()
		}

		principal, err := guard.authenticator.Authenticate(request.Context(), token)
		if err != nil {
			return nil, err
		}

		return request.WithContext(ctxutil.WithPrincipal(request.Context(), principal)), nil
	}
}

// IsLoggedIn attaches the principal when the session cookie carries a valid
// token. Every failure leaves the request anonymous.
func (guard *Guard) IsLoggedIn() middleware.Stage {
	return func(_ http.ResponseWriter, request *http.Request) (*http.Request, error) {
		token := cookieToken(request)
		if token == "" {
			return request, nil
		}

		principal, err := guard.authenticator.Authenticate(request.Context(), token)
		if err != nil {
			return request, nil
		}

		return request.WithContext(ctxutil.WithPrincipal(request.Context(), principal)), nil
	}
}

// RestrictTo admits only principals holding one of roles. It must follow
// [Guard.Protect] in the pipeline.
func (guard *Guard) RestrictTo(roles ...sec.UserRole) middleware.Stage {
	return func(_ http.ResponseWriter, request *http.Request) (*http.Request, error) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			return nil, apperr.Unauthenticated()
		}
		if !principal.Role.In(roles...) {
			return nil, apperr.Forbidden()
		}
		return request, nil
	}
}

// bearerToken extracts the token of an "Authorization: Bearer" header.
func bearerToken(request *http.Request) string {
	scheme, token, found := strings.Cut(request.Header.Get(constants.HeaderAuthorization), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// cookieToken reads the session cookie. The logout placeholder counts as absent.
func cookieToken(request *http.Request) string {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == constants.LoggedOutCookieValue {
		return ""
	}
	return cookie.Value
}
