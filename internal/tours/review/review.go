// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review manages the reviews customers leave on tours.

A user reviews a tour at most once. Every write recalculates the rating
statistics of the reviewed tour inside the same transaction.
*/
package review

import (
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/trailhead/internal/platform/constants"
	requestutil "github.com/taibuivan/trailhead/internal/platform/request"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/internal/platform/validate"
	"github.com/taibuivan/trailhead/pkg/pointer"
	"github.com/taibuivan/trailhead/pkg/query"
)

// # Domain Entities

// Author is the embedded form of the reviewing user.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// TourSummary is the embedded form of the reviewed tour.
type TourSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Review is a user's opinion of a tour.
type Review struct {
	ID        string                    `json:"id,omitempty"`
	Review    string                    `json:"review"`
	Rating    *float64                  `json:"rating,omitempty"`
	Tour      resource.Ref[TourSummary] `json:"tour,omitzero"`
	User      resource.Ref[Author]      `json:"user,omitzero"`
	CreatedAt *time.Time                `json:"created_at,omitempty"`
}

// # Validation Rules

const (
	MinRating     = 1.0
	MaxRating     = 5.0
	DefaultRating = 5.0
)

// # Field Identifiers

const (
	FieldReview = "review"
	FieldRating = "rating"
	FieldTour   = "tour"
	FieldUser   = "user"
)

// Prepare trims the text and applies the default rating.
func (review *Review) Prepare() error {
	review.Review = strings.TrimSpace(review.Review)
	if review.Rating == nil {
		review.Rating = pointer.To(DefaultRating)
	}
	return nil
}

// Validate checks the complete review state.
func (review *Review) Validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldReview, review.Review).
		FloatRange(FieldRating, pointer.Val(review.Rating), MinRating, MaxRating).
		Custom(FieldTour, review.Tour.ID == "", "Review must belong to a tour").
		Custom(FieldUser, review.User.ID == "", "Review must belong to a user")

	return validator.Err()
}

// assign fills the tour from the nested route and the user from the
// session when the payload leaves them out.
func assign(request *http.Request, review *Review) error {
	if review.Tour.ID == "" {
		review.Tour = resource.RefTo[TourSummary](requestutil.Param(request, "tourId"))
	}
	if review.User.ID == "" {
		if principal := requestutil.Principal(request); principal != nil {
			review.User = resource.RefTo[Author](principal.ID)
		}
	}
	return nil
}

// definition configures the generic review handler.
var definition = resource.Definition[Review]{
	Name:   "review",
	Assign: assign,
	Prepare: func(review *Review) error {
		return review.Prepare()
	},
	Validate: func(review *Review) error {
		return review.Validate()
	},
	Writable: []string{FieldReview, FieldRating},
	Query: query.Options{
		DefaultSort: constants.DefaultSort,
		Hidden:      []string{"version"},
	},
}
