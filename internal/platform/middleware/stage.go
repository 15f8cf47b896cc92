// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"

	"github.com/taibuivan/trailhead/internal/platform/ctxutil"
	"github.com/taibuivan/trailhead/internal/platform/respond"
)

// # Pipeline Stages

// Stage is one step of a route's request pipeline.
//
// A stage returns the request the next stage should see, usually enriched
// with context values, or an error that ends the pipeline. A stage never
// writes a success response itself.
type Stage func(writer http.ResponseWriter, request *http.Request) (*http.Request, error)

// ErrorWriter renders the error that ended a pipeline.
type ErrorWriter func(writer http.ResponseWriter, request *http.Request, err error)

// Chain runs stages in order ahead of the wrapped handler. The first error
// is rendered as a JSON envelope.
func Chain(stages ...Stage) func(http.Handler) http.Handler {
	return Pipeline(respond.Error, stages...)
}

// Pipeline is [Chain] with a custom error renderer, used by page routes.
func Pipeline(fail ErrorWriter, stages ...Stage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			for _, stage := range stages {
				enriched, err := stage(writer, request)
				if err != nil {
					fail(writer, request, err)
					return
				}
				request = enriched
			}

			if principal := ctxutil.GetPrincipal(request.Context()); principal != nil {
				if holder := holderFrom(request.Context()); holder != nil {
					holder.userID = principal.ID
				}
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Principal Holder

// principalHolder lets the request logger report the user resolved by a
// downstream stage.
type principalHolder struct {
	userID string
}

type holderKey struct{}

func withHolder(ctx context.Context, holder *principalHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, holder)
}

func holderFrom(ctx context.Context) *principalHolder {
	holder, _ := ctx.Value(holderKey{}).(*principalHolder)
	return holder
}
