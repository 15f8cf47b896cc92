// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/payment"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/internal/platform/sec"
	"github.com/taibuivan/trailhead/internal/tours/tour"
	"github.com/taibuivan/trailhead/internal/users/auth"
	"github.com/taibuivan/trailhead/pkg/pointer"
	"github.com/taibuivan/trailhead/pkg/query"
	"github.com/taibuivan/trailhead/pkg/slice"
)

// SourceCheckout labels bookings created by a completed payment.
const SourceCheckout = "checkout"

// ErrPaymentsDisabled is returned when no payment gateway is configured.
var ErrPaymentsDisabled = errors.New("payment_gateway_not_configured")

// Tours looks up visible tours.
type Tours interface {
	FindByID(context context.Context, id string, populate ...string) (*tour.Tour, error)
}

// Accounts looks up active accounts by email.
type Accounts interface {
	FindByEmail(context context.Context, email string) (*auth.User, error)
}

// Service implements the checkout flow and the account's booked tours.
type Service struct {
	bookings  Repository
	tours     Tours
	accounts  Accounts
	gateway   payment.Gateway
	recorder  Recorder
	logger    *slog.Logger
	publicURL string
}

// NewService constructs a new [Service]. A nil gateway disables checkout.
func NewService(bookings Repository, tours Tours, accounts Accounts, gateway payment.Gateway,
	recorder Recorder, logger *slog.Logger, publicURL string) *Service {
	return &Service{
		bookings:  bookings,
		tours:     tours,
		accounts:  accounts,
		gateway:   gateway,
		recorder:  recorder,
		logger:    logger,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

/*
CheckoutSession opens a hosted payment page for one tour.

Parameters:
  - principal: The paying user
  - tourID: The tour being booked

Returns:
  - *payment.Session: The session id and page URL
  - error: NotFound for unknown tours, provider failures
*/
func (service *Service) CheckoutSession(context context.Context, principal *sec.Principal, tourID string) (*payment.Session, error) {
	if service.gateway == nil {
		return nil, apperr.Internal(ErrPaymentsDisabled)
	}

	booked, err := service.tours.FindByID(context, tourID)
	if err != nil {
		return nil, err
	}
	if booked == nil {
		return nil, apperr.NotFound("tour")
	}

	session, err := service.gateway.Checkout(context, payment.Checkout{
		Reference:  booked.ID,
		Email:      principal.Email,
		SuccessURL: service.publicURL + "/my-tours?alert=booking",
		CancelURL:  service.publicURL + "/tour/" + booked.Slug,
		Item: payment.Item{
			Name:        booked.Name + " Tour",
			Description: booked.Summary,
			Image:       service.publicURL + "/img/tours/" + booked.ImageCover,
			Price:       booked.Price,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("checkout_session_failed: %w", err)
	}

	service.logger.InfoContext(context, "checkout_session_created",
		slog.String("tour_id", booked.ID),
		slog.String("user_id", principal.ID),
	)

	return session, nil
}

/*
Complete verifies a payment callback and records the booking it completes.

Returns:
  - *Booking: The created booking, or nil for events that complete nothing
  - error: BadRequest for unverifiable payloads, NotFound for unknown customers
*/
func (service *Service) Complete(context context.Context, payload []byte, signature string) (*Booking, error) {
	if service.gateway == nil {
		return nil, apperr.Internal(ErrPaymentsDisabled)
	}

	completion, err := service.gateway.Complete(payload, signature)
	if err != nil {
		return nil, apperr.BadRequest("Webhook error: " + err.Error()).WithCause(err)
	}
	if completion == nil {
		return nil, nil
	}

	customer, err := service.accounts.FindByEmail(context, completion.Email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		service.logger.WarnContext(context, "checkout_customer_missing", slog.String("tour_id", completion.Reference))
		return nil, apperr.NotFound("user")
	}

	booking, err := service.bookings.Create(context, &Booking{
		Tour:  resource.RefTo[TourCard](completion.Reference),
		User:  resource.RefTo[Customer](customer.ID),
		Price: completion.Amount,
		Paid:  pointer.To(true),
	})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotCreated("booking")
	}

	service.recorder.BookingCreated(SourceCheckout)
	service.logger.InfoContext(context, "booking_created",
		slog.String("booking_id", booking.ID),
		slog.String("source", SourceCheckout),
	)

	return booking, nil
}

// ToursOf returns the tours booked by userID, each once.
func (service *Service) ToursOf(context context.Context, userID string) ([]TourCard, error) {
	bookings, err := service.bookings.Find(context, query.Spec{
		Predicates: []query.Predicate{query.Eq(FieldUser, userID)},
		Sort:       []query.SortField{{Field: "created_at"}},
	}, FieldTour)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(bookings))
	unique := slice.Filter(bookings, func(booking Booking) bool {
		if !booking.Tour.Populated() || seen[booking.Tour.ID] {
			return false
		}
		seen[booking.Tour.ID] = true
		return true
	})

	tours := slice.Map(unique, func(booking Booking) TourCard { return *booking.Tour.Doc })
	if tours == nil {
		tours = []TourCard{}
	}
	return tours, nil
}
