// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package testkit holds HTTP fakes shared by the handler tests of the
// domain packages.
package testkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/ctxutil"
	"github.com/taibuivan/trailhead/internal/platform/middleware"
	"github.com/taibuivan/trailhead/internal/platform/sec"
)

// UserHeader carries the fake session as "id:role".
const UserHeader = "X-Test-User"

// HeaderGuard trusts [UserHeader] instead of a session token.
type HeaderGuard struct{}

// Protect resolves the principal from the header.
func (HeaderGuard) Protect() middleware.Stage {
	return func(_ http.ResponseWriter, request *http.Request) (*http.Request, error) {
		id, role, found := strings.Cut(request.Header.Get(UserHeader), ":")
		if !found {
			return nil, apperr.Unauthenticated()
		}
		principal := &sec.Principal{ID: id, Name: "Test " + id, Email: id + "@example.com", Role: sec.UserRole(role)}
		return request.WithContext(ctxutil.WithPrincipal(request.Context(), principal)), nil
	}
}

// IsLoggedIn resolves the principal when the header is present.
func (guard HeaderGuard) IsLoggedIn() middleware.Stage {
	protect := guard.Protect()
	return func(writer http.ResponseWriter, request *http.Request) (*http.Request, error) {
		if request.Header.Get(UserHeader) == "" {
			return request, nil
		}
		return protect(writer, request)
	}
}

// RestrictTo checks the resolved role.
func (HeaderGuard) RestrictTo(roles ...sec.UserRole) middleware.Stage {
	return func(_ http.ResponseWriter, request *http.Request) (*http.Request, error) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil || !principal.Role.In(roles...) {
			return nil, apperr.Forbidden()
		}
		return request, nil
	}
}

// Call serves one request. An empty user sends no session.
func Call(router http.Handler, method, target, user, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != "" {
		request.Header.Set(UserHeader, user)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

// Decode reads a JSON response body.
func Decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}
