// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trailhead/internal/platform/payment"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/internal/platform/testkit"
	"github.com/taibuivan/trailhead/internal/tours/booking"
	"github.com/taibuivan/trailhead/internal/tours/tour"
	"github.com/taibuivan/trailhead/internal/users/auth"
	"github.com/taibuivan/trailhead/pkg/query"
)

// # Fakes

type memoryBookings struct {
	bookings map[string]*booking.Booking
	lastSpec query.Spec
}

func (repository *memoryBookings) FindByID(_ context.Context, id string, _ ...string) (*booking.Booking, error) {
	item, ok := repository.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *item
	return &clone, nil
}

func (repository *memoryBookings) Find(_ context.Context, spec query.Spec, _ ...string) ([]booking.Booking, error) {
	repository.lastSpec = spec
	result := []booking.Booking{}
	for _, id := range []string{"b1", "b2", "b3", "b4"} {
		if item, ok := repository.bookings[id]; ok {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (repository *memoryBookings) Create(_ context.Context, item *booking.Booking) (*booking.Booking, error) {
	item.ID = fmt.Sprintf("b%d", len(repository.bookings)+1)
	repository.bookings[item.ID] = item
	return item, nil
}

func (repository *memoryBookings) Replace(_ context.Context, id string, item *booking.Booking) (*booking.Booking, error) {
	item.ID = id
	repository.bookings[id] = item
	return item, nil
}

func (repository *memoryBookings) Delete(_ context.Context, id string) (*booking.Booking, error) {
	item, ok := repository.bookings[id]
	if !ok {
		return nil, nil
	}
	delete(repository.bookings, id)
	return item, nil
}

type tourTable map[string]tour.Tour

func (tours tourTable) FindByID(_ context.Context, id string, _ ...string) (*tour.Tour, error) {
	item, ok := tours[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

type accountTable map[string]auth.User

func (accounts accountTable) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	user, ok := accounts[email]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

type fakeGateway struct {
	checkout   payment.Checkout
	completion *payment.Completion
	err        error
}

func (gateway *fakeGateway) Checkout(_ context.Context, checkout payment.Checkout) (*payment.Session, error) {
	gateway.checkout = checkout
	return &payment.Session{ID: "cs_test_1", URL: "https://checkout.example.com/cs_test_1"}, nil
}

func (gateway *fakeGateway) Complete([]byte, string) (*payment.Completion, error) {
	return gateway.completion, gateway.err
}

type countingRecorder map[string]int

func (recorder countingRecorder) BookingCreated(source string) { recorder[source]++ }

// # Fixture

type fixture struct {
	bookings *memoryBookings
	gateway  *fakeGateway
	recorder countingRecorder
	router   http.Handler
}

func newFixture(gateway payment.Gateway) *fixture {
	fixture := &fixture{
		bookings: &memoryBookings{bookings: map[string]*booking.Booking{}},
		recorder: countingRecorder{},
	}
	if fake, ok := gateway.(*fakeGateway); ok {
		fixture.gateway = fake
	}

	tours := tourTable{"t1": {ID: "t1", Name: "The Forest Hiker", Slug: "the-forest-hiker", Price: 397,
		Summary: "Breathtaking hike", ImageCover: "tour-1-cover.jpg"}}
	accounts := accountTable{"laura@example.com": {ID: "u1", Email: "laura@example.com"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := booking.NewService(fixture.bookings, tours, accounts, gateway, fixture.recorder, logger, "https://trailhead.example.com/")
	handler := booking.NewHandler(service, booking.Counted(fixture.bookings, fixture.recorder, "admin"), testkit.HeaderGuard{})

	router := chi.NewRouter()
	handler.RegisterWebhook(router)
	router.Route("/api/v1/bookings", handler.Register)
	fixture.router = router
	return fixture
}

/*
TestCheckoutSession builds the hosted page from the tour.
*/
func TestCheckoutSession(t *testing.T) {
	fixture := newFixture(&fakeGateway{})

	recorder := testkit.Call(fixture.router, http.MethodGet, "/api/v1/bookings/checkout-session/t1", "u1:user", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "https://checkout.example.com/cs_test_1")

	checkout := fixture.gateway.checkout
	assert.Equal(t, "t1", checkout.Reference)
	assert.Equal(t, "u1@example.com", checkout.Email)
	assert.Equal(t, "The Forest Hiker Tour", checkout.Item.Name)
	assert.Equal(t, 397.0, checkout.Item.Price)
	assert.Equal(t, "https://trailhead.example.com/img/tours/tour-1-cover.jpg", checkout.Item.Image)
	assert.Equal(t, "https://trailhead.example.com/my-tours?alert=booking", checkout.SuccessURL)
	assert.Equal(t, "https://trailhead.example.com/tour/the-forest-hiker", checkout.CancelURL)
}

/*
TestCheckoutSession_Failures covers sessions, unknown tours and disabled payments.
*/
func TestCheckoutSession_Failures(t *testing.T) {
	fixture := newFixture(&fakeGateway{})

	recorder := testkit.Call(fixture.router, http.MethodGet, "/api/v1/bookings/checkout-session/t1", "", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = testkit.Call(fixture.router, http.MethodGet, "/api/v1/bookings/checkout-session/t9", "u1:user", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	disabled := newFixture(nil)
	recorder = testkit.Call(disabled.router, http.MethodGet, "/api/v1/bookings/checkout-session/t1", "u1:user", "")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

/*
TestWebhook covers the outcomes of a payment callback.
*/
func TestWebhook(t *testing.T) {
	tests := []struct {
		name       string
		gateway    *fakeGateway
		status     int
		bookings   int
		bodySubstr string
	}{
		{
			name:       "bad signature",
			gateway:    &fakeGateway{err: payment.ErrInvalidSignature},
			status:     http.StatusBadRequest,
			bodySubstr: "Webhook error",
		},
		{
			name:       "other event",
			gateway:    &fakeGateway{},
			status:     http.StatusOK,
			bodySubstr: `"received":true`,
		},
		{
			name:       "completed",
			gateway:    &fakeGateway{completion: &payment.Completion{Reference: "t1", Email: "laura@example.com", Amount: 397}},
			status:     http.StatusOK,
			bookings:   1,
			bodySubstr: `"received":true`,
		},
		{
			name:    "unknown customer",
			gateway: &fakeGateway{completion: &payment.Completion{Reference: "t1", Email: "ghost@example.com", Amount: 397}},
			status:  http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFixture(tt.gateway)

			recorder := testkit.Call(fixture.router, http.MethodPost, "/webhook-checkout", "", `{"type":"checkout.session.completed"}`)
			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.bodySubstr)
			assert.Len(t, fixture.bookings.bookings, tt.bookings)
			assert.Equal(t, tt.bookings, fixture.recorder[booking.SourceCheckout])

			if tt.bookings == 1 {
				created := fixture.bookings.bookings["b1"]
				assert.Equal(t, "t1", created.Tour.ID)
				assert.Equal(t, "u1", created.User.ID)
				assert.Equal(t, 397.0, created.Price)
				assert.True(t, *created.Paid)
			}
		})
	}
}

/*
TestMyTours lists each booked tour once.
*/
func TestMyTours(t *testing.T) {
	fixture := newFixture(&fakeGateway{})
	hiker := &booking.TourCard{ID: "t1", Name: "The Forest Hiker", Slug: "the-forest-hiker"}
	explorer := &booking.TourCard{ID: "t2", Name: "The Sea Explorer", Slug: "the-sea-explorer"}

	fixture.bookings.bookings = map[string]*booking.Booking{
		"b1": {ID: "b1", Tour: resource.Ref[booking.TourCard]{ID: "t1", Doc: hiker}, Price: 397},
		"b2": {ID: "b2", Tour: resource.Ref[booking.TourCard]{ID: "t2", Doc: explorer}, Price: 497},
		"b3": {ID: "b3", Tour: resource.Ref[booking.TourCard]{ID: "t1", Doc: hiker}, Price: 397},
	}

	recorder := testkit.Call(fixture.router, http.MethodGet, "/api/v1/bookings/my-tours", "u1:user", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := testkit.Decode(t, recorder)
	assert.EqualValues(t, 2, body["results"])
	assert.Contains(t, fixture.bookings.lastSpec.Predicates, query.Eq(booking.FieldUser, "u1"))
}

/*
TestStaffRoutes restricts CRUD to staff and counts manual bookings.
*/
func TestStaffRoutes(t *testing.T) {
	fixture := newFixture(&fakeGateway{})
	body := `{"tour":"t1","user":"u1","price":397}`

	recorder := testkit.Call(fixture.router, http.MethodPost, "/api/v1/bookings", "u1:user", body)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = testkit.Call(fixture.router, http.MethodPost, "/api/v1/bookings", "l1:lead-guide", body)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, 1, fixture.recorder["admin"])

	recorder = testkit.Call(fixture.router, http.MethodPost, "/api/v1/bookings", "a1:admin", `{"tour":"t1","price":397}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = testkit.Call(fixture.router, http.MethodGet, "/api/v1/bookings", "a1:admin", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.EqualValues(t, 1, testkit.Decode(t, recorder)["results"])
}
