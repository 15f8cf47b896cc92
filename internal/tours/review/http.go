// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trailhead/internal/platform/middleware"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/internal/platform/sec"
)

// Guard supplies the authentication stages.
type Guard interface {
	Protect() middleware.Stage
	RestrictTo(roles ...sec.UserRole) middleware.Stage
}

// Handler implements the review endpoints.
type Handler struct {
	reviews *resource.Handler[Review]
	guard   Guard
}

// NewHandler constructs a new [Handler].
func NewHandler(repository Repository, guard Guard) *Handler {
	return &Handler{
		reviews: resource.NewHandler[Review](repository, definition),
		guard:   guard,
	}
}

// Register adds the review routes. The same routes serve /reviews and the
// nested /tours/{tourId}/reviews, where lists are scoped to the tour and
// new reviews are attached to it.
//
// # Endpoints
//   - GET    /
//   - GET    /{id}
//   - POST   /        (user)
//   - PATCH  /{id}    (user, admin)
//   - DELETE /{id}    (user, admin)
func (handler *Handler) Register(router chi.Router) {
	router.Get("/", handler.reviews.List(resource.Listing{
		Scopes:   []resource.Scope{resource.Param("tourId", FieldTour)},
		Populate: []string{FieldUser},
	}))
	router.Get("/{id}", handler.reviews.Get(FieldUser, FieldTour))

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.Chain(handler.guard.Protect()))

		protected.With(middleware.Chain(handler.guard.RestrictTo(sec.RoleUser))).
			Post("/", handler.reviews.Create())

		protected.Group(func(authors chi.Router) {
			authors.Use(middleware.Chain(handler.guard.RestrictTo(sec.RoleUser, sec.RoleAdmin)))
			authors.Patch("/{id}", handler.reviews.Update())
			authors.Delete("/{id}", handler.reviews.Delete())
		})
	})
}
