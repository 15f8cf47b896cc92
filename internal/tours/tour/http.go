// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tour

import (
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

// Handler implements the tour endpoints.
type Handler struct {
	repository Repository
	tours      *resource.Handler[Tour]
	guard      Guard
}

// NewHandler constructs a new [Handler].
func NewHandler(repository Repository, guard Guard) *Handler {
	return &Handler{
		repository: repository,
		tours:      resource.NewHandler[Tour](repository, definition),
		guard:      guard,
	}
}

// Register adds the tour routes.
//
// # Endpoints
//   - GET    /top-5-cheap
//   - GET    /tour-stats
//   - GET    /monthly-plan/{year}                                (admin, lead-guide, guide)
//   - GET    /tours-within/{distance}/center/{latlng}/unit/{unit}
//   - GET    /distances/{latlng}/unit/{unit}
//   - GET    /
//   - POST   /                                                   (admin, lead-guide)
//   - GET    /{id}
//   - PATCH  /{id}                                               (admin, lead-guide)
//   - DELETE /{id}                                               (admin, lead-guide)
func (handler *Handler) Register(router chi.Router) {
	router.With(middleware.Chain(TopCheap())).Get("/top-5-cheap", handler.tours.List(resource.Listing{}))
	router.Get("/tour-stats", handler.stats())
	router.Get("/tours-within/{distance}/center/{latlng}/unit/{unit}", handler.within())
	router.Get("/distances/{latlng}/unit/{unit}", handler.distances())

	router.Get("/", handler.tours.List(resource.Listing{}))
	router.Get("/{id}", handler.tours.Get(FieldGuides, FieldReviews))

	router.Group(func(staff chi.Router) {
		staff.Use(middleware.Chain(
			handler.guard.Protect(),
			handler.guard.RestrictTo(sec.RoleAdmin, sec.RoleLeadGuide, sec.RoleGuide),
		))
		staff.Get("/monthly-plan/{year}", handler.monthlyPlan())
	})

	router.Group(func(managers chi.Router) {
		managers.Use(middleware.Chain(
			handler.guard.Protect(),
			handler.guard.RestrictTo(sec.RoleAdmin, sec.RoleLeadGuide),
		))
		managers.Post("/", handler.tours.Create())
		managers.Patch("/{id}", handler.tours.Update())
		managers.Delete("/{id}", handler.tours.Delete())
	})
}

// TopCheap presets the query of the five best rated, cheapest tours.
// Explicit parameters of the request are overwritten.
func TopCheap() middleware.Stage {
	return func(_ http.ResponseWriter, request *http.Request) (*http.Request, error) {
		values := request.URL.Query()
		values.Set("limit", "5")
		values.Set("sort", "-ratings_average,price")
		values.Set("fields", "name,price,ratings_average,summary,difficulty")

		aliased := request.Clone(request.Context())
		aliased.URL.RawQuery = values.Encode()
		return aliased, nil
	}
}

/*
Stats aggregates the well-rated tours per difficulty.

GET /api/v1/tours/tour-stats
*/
func (handler *Handler) stats() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		stats, err := handler.repository.Stats(request.Context())
		if err != nil {
			return err
		}

		respond.OK(writer, map[string]any{"stats": stats})
		return nil
	})
}

/*
MonthlyPlan counts the tour starts of each month in a year.

GET /api/v1/tours/monthly-plan/{year}

Response:
  - 200: Months ordered by number of starts
  - 400: BAD_REQUEST: The year is not a number
*/
func (handler *Handler) monthlyPlan() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		year, err := requestutil.IntParam(request, "year", 1, 9999)
		if err != nil {
			return apperr.BadRequest("Year must be a number")
		}

		plan, err := handler.repository.MonthlyPlan(request.Context(), year)
		if err != nil {
			return err
		}

		respond.OK(writer, map[string]any{"plan": plan})
		return nil
	})
}

/*
Within finds the tours starting inside a radius.

GET /api/v1/tours/tours-within/{distance}/center/{latlng}/unit/{unit}
*/
func (handler *Handler) within() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		distance, err := ParseDistance(requestutil.Param(request, "distance"))
		if err != nil {
			return err
		}
		center, err := ParseCenter(requestutil.Param(request, "latlng"))
		if err != nil {
			return err
		}
		unit, err := ParseUnit(requestutil.Param(request, "unit"))
		if err != nil {
			return err
		}

		tours, err := handler.repository.Within(request.Context(), center, distance, unit)
		if err != nil {
			return err
		}

		respond.List(writer, tours, len(tours))
		return nil
	})
}

/*
Distances reports how far every tour starts from a point.

GET /api/v1/tours/distances/{latlng}/unit/{unit}
*/
func (handler *Handler) distances() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		center, err := ParseCenter(requestutil.Param(request, "latlng"))
		if err != nil {
			return err
		}
		unit, err := ParseUnit(requestutil.Param(request, "unit"))
		if err != nil {
			return err
		}

		distances, err := handler.repository.Distances(request.Context(), center, unit)
		if err != nil {
			return err
		}

		respond.List(writer, distances, len(distances))
		return nil
	})
}
