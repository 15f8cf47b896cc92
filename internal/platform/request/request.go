// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads what the handlers need from an HTTP request: the
decoded JSON body, chi URL parameters and the principal left by the guard.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/ctxutil"
	"github.com/taibuivan/trailhead/internal/platform/sec"
	"github.com/taibuivan/trailhead/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: PayloadTooLarge when the body limit was hit, validate.ErrInvalidJSON
    for any other decoding failure, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.PayloadTooLarge(tooLarge.Limit)
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves the "id" URL parameter.
*/
func ID(request *http.Request) string {
	return chi.URLParam(request, "id")
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam parses a named URL parameter as an integer within [low, high].

Returns:
  - int: The parsed value
  - error: Parse failure or a value outside the range; callers map it to a
    client error with their own wording
*/
func IntParam(request *http.Request, name string, low, high int) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(request, name))
	if err != nil {
		return 0, fmt.Errorf("param_%s_invalid: %w", name, err)
	}
	if value < low || value > high {
		return 0, fmt.Errorf("param_%s_out_of_range: %d", name, value)
	}
	return value, nil
}

/*
Principal extracts the authenticated principal from the request context.

Returns nil if the request is not authenticated.
*/
func Principal(request *http.Request) *sec.Principal {
	return ctxutil.GetPrincipal(request.Context())
}

/*
RequiredPrincipal ensures the request is authenticated and returns its principal.

Returns:
  - *sec.Principal: The authenticated user
  - error: apperr.Unauthenticated if no guard resolved a principal
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		return nil, apperr.Unauthenticated()
	}
	return principal, nil
}
