// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/middleware"
	requestutil "github.com/taibuivan/trailhead/internal/platform/request"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/internal/platform/respond"
	"github.com/taibuivan/trailhead/internal/platform/sec"
)

// Guard supplies the authentication stages.
type Guard interface {
	Protect() middleware.Stage
	RestrictTo(roles ...sec.UserRole) middleware.Stage
}

// Handler implements the profile and admin directory endpoints.
type Handler struct {
	service   *Service
	directory *resource.Handler[Profile]
	guard     Guard
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, repository Repository, guard Guard) *Handler {
	return &Handler{
		service:   service,
		directory: resource.NewHandler[Profile](repository, definition),
		guard:     guard,
	}
}

// Register adds the account routes to the users router. Every route
// requires a session; the directory routes require the admin role.
//
// # Endpoints
//   - GET    /me
//   - PATCH  /updateMe
//   - DELETE /deleteMe
//   - GET    /        (admin)
//   - GET    /{id}    (admin)
//   - PATCH  /{id}    (admin)
//   - DELETE /{id}    (admin, deactivates)
func (handler *Handler) Register(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.Chain(handler.guard.Protect()))

		protected.Get("/me", handler.me())
		protected.Patch("/updateMe", handler.updateMe())
		protected.Delete("/deleteMe", handler.deleteMe())

		protected.Group(func(admin chi.Router) {
			admin.Use(middleware.Chain(handler.guard.RestrictTo(sec.RoleAdmin)))

			admin.Get("/", handler.directory.List(resource.Listing{}))
			admin.Post("/", handler.create())
			admin.Get("/{id}", handler.directory.Get())
			admin.Patch("/{id}", handler.directory.Update())
			admin.Delete("/{id}", handler.directory.Delete())
		})
	})
}

/*
Me returns the caller's profile.

GET /api/v1/users/me
*/
func (handler *Handler) me() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		principal, err := requestutil.RequiredPrincipal(request)
		if err != nil {
			return err
		}

		profile, err := handler.service.Me(request.Context(), principal.ID)
		if err != nil {
			return err
		}

		respond.Resource(writer, http.StatusOK, profile)
		return nil
	})
}

/*
UpdateMe changes the caller's name and email.

PATCH /api/v1/users/updateMe

Response:
  - 200: The updated user
  - 400: BAD_REQUEST: Password fields were sent
*/
func (handler *Handler) updateMe() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		principal, err := requestutil.RequiredPrincipal(request)
		if err != nil {
			return err
		}

		var patch map[string]json.RawMessage
		if err := requestutil.DecodeJSON(request, &patch); err != nil {
			return err
		}

		profile, err := handler.service.UpdateMe(request.Context(), principal.ID, patch)
		if err != nil {
			return err
		}

		respond.OK(writer, map[string]any{"user": profile})
		return nil
	})
}

/*
DeleteMe deactivates the caller's account.

DELETE /api/v1/users/deleteMe
*/
func (handler *Handler) deleteMe() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		principal, err := requestutil.RequiredPrincipal(request)
		if err != nil {
			return err
		}

		if err := handler.service.DeleteMe(request.Context(), principal.ID); err != nil {
			return err
		}

		respond.NoContent(writer)
		return nil
	})
}

// create points admins at signup; accounts are never created without credentials.
func (handler *Handler) create() http.HandlerFunc {
	return respond.Handle(func(http.ResponseWriter, *http.Request) error {
		return apperr.BadRequest("This route is not defined, please use /signup instead")
	})
}
