// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package booking records paid tour bookings.

Customers pay on a hosted checkout page. The provider's completion callback
creates the booking; staff manage bookings through the generic CRUD routes.
*/
package booking

import (
	"time"

	"github.com/taibuivan/trailhead/internal/platform/constants"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/internal/platform/validate"
	"github.com/taibuivan/trailhead/pkg/query"
)

// # Domain Entities

// Customer is the embedded form of the booking user.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// TourCard is the embedded form of the booked tour, as shown on the
// account's tour list.
type TourCard struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Slug           string      `json:"slug"`
	ImageCover     string      `json:"image_cover,omitempty"`
	Price          float64     `json:"price"`
	Duration       int         `json:"duration,omitempty"`
	Summary        string      `json:"summary,omitempty"`
	Difficulty     string      `json:"difficulty,omitempty"`
	StartDates     []time.Time `json:"start_dates,omitempty"`
	MaxGroupSize   int         `json:"max_group_size,omitempty"`
	RatingsAverage float64     `json:"ratings_average,omitempty"`
}

// Booking is a tour purchased by a user.
type Booking struct {
	ID        string                 `json:"id,omitempty"`
	Tour      resource.Ref[TourCard] `json:"tour,omitzero"`
	User      resource.Ref[Customer] `json:"user,omitzero"`
	Price     float64                `json:"price"`
	Paid      *bool                  `json:"paid,omitempty"`
	CreatedAt *time.Time             `json:"created_at,omitempty"`
}

// # Field Identifiers

const (
	FieldTour  = "tour"
	FieldUser  = "user"
	FieldPrice = "price"
	FieldPaid  = "paid"
)

// Validate checks the complete booking state.
func (booking *Booking) Validate() error {
	validator := &validate.Validator{}
	validator.Custom(FieldTour, booking.Tour.ID == "", "Booking must belong to a tour").
		Custom(FieldUser, booking.User.ID == "", "Booking must belong to a user").
		Positive(FieldPrice, booking.Price)

	return validator.Err()
}

// definition configures the generic booking handler.
var definition = resource.Definition[Booking]{
	Name: "booking",
	Validate: func(booking *Booking) error {
		return booking.Validate()
	},
	Query: query.Options{
		DefaultSort: constants.DefaultSort,
		Hidden:      []string{"version"},
	},
}
