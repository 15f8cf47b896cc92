// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/constants"
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

// Handler implements the booking endpoints.
type Handler struct {
	service  *Service
	bookings *resource.Handler[Booking]
	guard    Guard
}

// NewHandler constructs a new [Handler]. The repository serves the staff
// CRUD routes.
func NewHandler(service *Service, repository Repository, guard Guard) *Handler {
	return &Handler{
		service:  service,
		bookings: resource.NewHandler[Booking](repository, definition),
		guard:    guard,
	}
}

// Register adds the booking routes. Every route requires a session.
//
// # Endpoints
//   - GET    /checkout-session/{tourId}
//   - GET    /my-tours
//   - GET    /        (admin, lead-guide)
//   - POST   /        (admin, lead-guide)
//   - GET    /{id}    (admin, lead-guide)
//   - PATCH  /{id}    (admin, lead-guide)
//   - DELETE /{id}    (admin, lead-guide)
func (handler *Handler) Register(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.Chain(handler.guard.Protect()))

		protected.Get("/checkout-session/{tourId}", handler.checkoutSession())
		protected.Get("/my-tours", handler.myTours())

		protected.Group(func(staff chi.Router) {
			staff.Use(middleware.Chain(handler.guard.RestrictTo(sec.RoleAdmin, sec.RoleLeadGuide)))

			staff.Get("/", handler.bookings.List(resource.Listing{Populate: []string{FieldUser, FieldTour}}))
			staff.Post("/", handler.bookings.Create())
			staff.Get("/{id}", handler.bookings.Get(FieldUser, FieldTour))
			staff.Patch("/{id}", handler.bookings.Update())
			staff.Delete("/{id}", handler.bookings.Delete())
		})
	})
}

// RegisterWebhook adds the payment callback. It reads the raw body, so it
// must be mounted outside any body-decoding middleware.
//
// # Endpoints
//   - POST /webhook-checkout
func (handler *Handler) RegisterWebhook(router chi.Router) {
	router.Post("/webhook-checkout", handler.webhook())
}

/*
CheckoutSession opens a hosted payment page for a tour.

GET /api/v1/bookings/checkout-session/{tourId}

Response:
  - 200: {"session": {"id", "url"}}
  - 404: NOT_FOUND: The tour does not exist
*/
func (handler *Handler) checkoutSession() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		principal, err := requestutil.RequiredPrincipal(request)
		if err != nil {
			return err
		}

		session, err := handler.service.CheckoutSession(request.Context(), principal, requestutil.Param(request, "tourId"))
		if err != nil {
			return err
		}

		respond.OK(writer, map[string]any{"session": session})
		return nil
	})
}

/*
MyTours lists the tours the caller has booked.

GET /api/v1/bookings/my-tours
*/
func (handler *Handler) myTours() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		principal, err := requestutil.RequiredPrincipal(request)
		if err != nil {
			return err
		}

		tours, err := handler.service.ToursOf(request.Context(), principal.ID)
		if err != nil {
			return err
		}

		respond.List(writer, tours, len(tours))
		return nil
	})
}

/*
Webhook records the booking of a completed checkout.

POST /webhook-checkout

Response:
  - 200: {"received": true}
  - 400: BAD_REQUEST: The signature does not verify
*/
func (handler *Handler) webhook() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		body, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, constants.MaxWebhookBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return apperr.PayloadTooLarge(tooLarge.Limit)
			}
			return apperr.BadRequest("Webhook error: unreadable body").WithCause(err)
		}

		if _, err := handler.service.Complete(request.Context(), body, request.Header.Get(constants.HeaderStripeSig)); err != nil {
			return err
		}

		respond.JSON(writer, http.StatusOK, map[string]bool{"received": true})
		return nil
	})
}
