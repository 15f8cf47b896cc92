// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package view renders the server-side HTML pages of the site.

Pages share the API's stores and session guard. Errors on page routes are
rendered as an HTML error page instead of the JSON envelope.
*/
package view

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/ctxutil"
	"github.com/taibuivan/trailhead/internal/platform/middleware"
	requestutil "github.com/taibuivan/trailhead/internal/platform/request"
	"github.com/taibuivan/trailhead/internal/platform/respond"
	"github.com/taibuivan/trailhead/internal/platform/sec"
	"github.com/taibuivan/trailhead/internal/tours/booking"
	"github.com/taibuivan/trailhead/internal/tours/tour"
	"github.com/taibuivan/trailhead/pkg/query"
)

// alerts maps the ?alert= values to banner messages.
var alerts = map[string]string{
	"booking": "Your booking was successful! Please check your email for a confirmation. " +
		"If your booking doesn't show up here immediately, please come back later.",
}

// Page is the data every template receives.
type Page struct {
	Title string
	User  *sec.Principal
	Alert string

	Tours   []tour.Tour
	Tour    *tour.Tour
	Booked  []booking.TourCard
	Status  int
	Message string
}

// Tours reads the visible catalogue.
type Tours interface {
	Find(context context.Context, spec query.Spec, populate ...string) ([]tour.Tour, error)
	FindBySlug(context context.Context, slug string, populate ...string) (*tour.Tour, error)
}

// Bookings lists the tours a user booked.
type Bookings interface {
	ToursOf(context context.Context, userID string) ([]booking.TourCard, error)
}

// Guard supplies the session stages.
type Guard interface {
	Protect() middleware.Stage
	IsLoggedIn() middleware.Stage
}

// Handler serves the HTML pages.
type Handler struct {
	renderer *Renderer
	tours    Tours
	bookings Bookings
	guard    Guard
}

// NewHandler constructs a new [Handler].
func NewHandler(renderer *Renderer, tours Tours, bookings Bookings, guard Guard) *Handler {
	return &Handler{renderer: renderer, tours: tours, bookings: bookings, guard: guard}
}

// Register adds the page routes.
//
// # Endpoints
//   - GET /
//   - GET /tour/{slug}
//   - GET /login
//   - GET /signup
//   - GET /me          (session)
//   - GET /my-tours    (session)
//   - GET /js/trailhead.js
func (handler *Handler) Register(router chi.Router) {
	router.Get("/js/trailhead.js", Script)

	router.Group(func(public chi.Router) {
		public.Use(middleware.Pipeline(handler.Fail, handler.guard.IsLoggedIn()))

		public.Get("/", handler.page(handler.overview))
		public.Get("/tour/{slug}", handler.page(handler.tour))
		public.Get("/login", handler.page(handler.static("login", "Log into your account")))
		public.Get("/signup", handler.page(handler.static("signup", "Create your account")))
	})

	router.Group(func(private chi.Router) {
		private.Use(middleware.Pipeline(handler.Fail, handler.guard.Protect()))

		private.Get("/me", handler.page(handler.static("account", "Your account")))
		private.Get("/my-tours", handler.page(handler.myTours))
	})
}

// Fail renders err as the error page. It is the error writer of every page
// pipeline.
func (handler *Handler) Fail(writer http.ResponseWriter, request *http.Request, err error) {
	appError := respond.Classify(request, err)

	page := handler.base(request, "Something went wrong!")
	page.Status = appError.HTTPStatus
	page.Message = appError.Message

	if renderErr := handler.renderer.Render(writer, appError.HTTPStatus, "error", page); renderErr != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "error_page_render_failed",
			slog.Any("error", renderErr))
		http.Error(writer, appError.Message, appError.HTTPStatus)
	}
}

// # Pages

// builder produces the page name and data of a request.
type builder func(request *http.Request) (string, Page, error)

// page renders a builder's result and routes failures to the error page.
func (handler *Handler) page(build builder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		name, data, err := build(request)
		if err != nil {
			handler.Fail(writer, request, err)
			return
		}
		if err := handler.renderer.Render(writer, http.StatusOK, name, data); err != nil {
			handler.Fail(writer, request, err)
		}
	}
}

func (handler *Handler) base(request *http.Request, title string) Page {
	return Page{
		Title: title,
		User:  requestutil.Principal(request),
		Alert: alerts[request.URL.Query().Get("alert")],
	}
}

func (handler *Handler) static(name, title string) builder {
	return func(request *http.Request) (string, Page, error) {
		return name, handler.base(request, title), nil
	}
}

func (handler *Handler) overview(request *http.Request) (string, Page, error) {
	tours, err := handler.tours.Find(request.Context(), query.Spec{
		Sort: []query.SortField{{Field: tour.FieldRatingsAverage, Desc: true}},
	})
	if err != nil {
		return "", Page{}, err
	}

	page := handler.base(request, "All Tours")
	page.Tours = tours
	return "overview", page, nil
}

func (handler *Handler) tour(request *http.Request) (string, Page, error) {
	found, err := handler.tours.FindBySlug(request.Context(), requestutil.Param(request, "slug"), tour.FieldGuides, tour.FieldReviews)
	if err != nil {
		return "", Page{}, err
	}
	if found == nil {
		return "", Page{}, apperr.NotFound("tour")
	}

	page := handler.base(request, found.Name+" Tour")
	page.Tour = found
	return "tour", page, nil
}

func (handler *Handler) myTours(request *http.Request) (string, Page, error) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		return "", Page{}, err
	}

	booked, err := handler.bookings.ToursOf(request.Context(), principal.ID)
	if err != nil {
		return "", Page{}, err
	}

	page := handler.base(request, "My Tours")
	page.Booked = booked
	return "overview", page, nil
}
