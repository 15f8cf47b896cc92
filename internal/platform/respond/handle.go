// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond

import "net/http"

// HandlerFunc is an HTTP handler that reports failure by returning an error.
type HandlerFunc func(writer http.ResponseWriter, request *http.Request) error

// Handle adapts fn so that every returned error reaches [Error].
func Handle(fn HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if err := fn(writer, request); err != nil {
			Error(writer, request, err)
		}
	}
}
