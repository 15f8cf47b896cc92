// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tour manages the tour catalogue.

It exposes the generic CRUD operations over tours plus the catalogue
specific endpoints: the top-5-cheap alias, difficulty statistics, the monthly
plan and the geospatial searches around a tour's start location.

Secret tours exist in storage but are invisible to every read.
*/
package tour

import (
	"math"
	"strings"
	"time"

	"github.com/taibuivan/trailhead/internal/platform/constants"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/internal/platform/sec"
	"github.com/taibuivan/trailhead/internal/platform/validate"
	"github.com/taibuivan/trailhead/pkg/pointer"
	"github.com/taibuivan/trailhead/pkg/query"
	"github.com/taibuivan/trailhead/pkg/slug"
)

// # Domain Entities

// Location is a GeoJSON point with a description. Coordinates are
// [longitude, latitude].
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	Day         int       `json:"day,omitempty"`
}

// Guide is the embedded form of a guide reference.
type Guide struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Email string       `json:"email,omitempty"`
	Photo string       `json:"photo,omitempty"`
	Role  sec.UserRole `json:"role,omitempty"`
}

// Reviewer is the embedded author of a review shown on a tour.
type Reviewer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// Review is a review as embedded in a tour document.
type Review struct {
	ID        string    `json:"id"`
	Review    string    `json:"review"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	Tour      string    `json:"tour"`
	User      *Reviewer `json:"user,omitempty"`
}

// Tour is a bookable tour.
type Tour struct {
	ID              string                `json:"id,omitempty"`
	Name            string                `json:"name"`
	Slug            string                `json:"slug,omitempty"`
	Duration        int                   `json:"duration"`
	MaxGroupSize    int                   `json:"max_group_size"`
	Difficulty      string                `json:"difficulty"`
	RatingsAverage  *float64              `json:"ratings_average,omitempty"`
	RatingsQuantity *int                  `json:"ratings_quantity,omitempty"`
	Price           float64               `json:"price"`
	PriceDiscount   *float64              `json:"price_discount,omitempty"`
	Summary         string                `json:"summary"`
	Description     string                `json:"description,omitempty"`
	ImageCover      string                `json:"image_cover"`
	Images          []string              `json:"images,omitempty"`
	StartDates      []time.Time           `json:"start_dates,omitempty"`
	SecretTour      *bool                 `json:"secret_tour,omitempty"`
	StartLocation   *Location             `json:"start_location,omitempty"`
	Locations       []Location            `json:"locations,omitempty"`
	Guides          []resource.Ref[Guide] `json:"guides,omitempty"`
	DurationWeeks   *float64              `json:"duration_weeks,omitempty"`
	Reviews         []Review              `json:"reviews,omitempty"`
	CreatedAt       *time.Time            `json:"created_at,omitempty"`
}

// # Validation Rules

const (
	NameMinLength = 10
	NameMaxLength = 40
	MinRating     = 1.0
	MaxRating     = 5.0
)

// Difficulties lists the accepted difficulty levels.
var Difficulties = []string{"easy", "medium", "difficult"}

// Prepare derives the slug and normalizes the rating average.
func (tour *Tour) Prepare() error {
	tour.Name = strings.TrimSpace(tour.Name)
	tour.Slug = slug.From(tour.Name)

	if tour.RatingsAverage != nil {
		tour.RatingsAverage = pointer.To(math.Round(*tour.RatingsAverage*10) / 10)
	}
	return nil
}

// Validate checks the complete tour state.
func (tour *Tour) Validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldName, tour.Name).
		MinLen(FieldName, tour.Name, NameMinLength).
		MaxLen(FieldName, tour.Name, NameMaxLength).
		Custom(FieldDuration, tour.Duration <= 0, "A tour must have a duration").
		Custom(FieldMaxGroupSize, tour.MaxGroupSize <= 0, "A tour must have a group size").
		OneOf(FieldDifficulty, tour.Difficulty, Difficulties...).
		Positive(FieldPrice, tour.Price).
		Required(FieldSummary, tour.Summary).
		Required(FieldImageCover, tour.ImageCover)

	if tour.RatingsAverage != nil {
		validator.FloatRange(FieldRatingsAverage, *tour.RatingsAverage, MinRating, MaxRating)
	}
	if tour.PriceDiscount != nil {
		validator.Custom(FieldPriceDiscount, *tour.PriceDiscount >= tour.Price,
			"Discount price should be below regular price")
	}
	if tour.StartLocation != nil {
		validator.Custom(FieldStartLocation, !tour.StartLocation.valid(), "Start location must be a GeoJSON point")
	}
	for _, location := range tour.Locations {
		if !location.valid() {
			validator.Custom(FieldLocations, true, "Locations must be GeoJSON points")
			break
		}
	}

	return validator.Err()
}

// valid reports whether the location is a well-formed point.
func (location Location) valid() bool {
	if location.Type != "Point" || len(location.Coordinates) != 2 {
		return false
	}
	longitude, latitude := location.Coordinates[0], location.Coordinates[1]
	return math.Abs(longitude) <= 180 && math.Abs(latitude) <= 90
}

// # Field Identifiers

const (
	FieldID             = "id"
	FieldName           = "name"
	FieldSlug           = "slug"
	FieldDuration       = "duration"
	FieldMaxGroupSize   = "max_group_size"
	FieldDifficulty     = "difficulty"
	FieldRatingsAverage = "ratings_average"
	FieldRatingsCount   = "ratings_quantity"
	FieldPrice          = "price"
	FieldPriceDiscount  = "price_discount"
	FieldSummary        = "summary"
	FieldImageCover     = "image_cover"
	FieldSecretTour     = "secret_tour"
	FieldStartLocation  = "start_location"
	FieldLocations      = "locations"
	FieldGuides         = "guides"
	FieldReviews        = "reviews"
)

// definition configures the generic tour handler.
var definition = resource.Definition[Tour]{
	Name: "tour",
	Prepare: func(tour *Tour) error {
		return tour.Prepare()
	},
	Validate: func(tour *Tour) error {
		return tour.Validate()
	},
	Query: query.Options{
		DefaultSort: constants.DefaultTourSort,
		Hidden:      []string{"version"},
		Multi: []string{
			FieldDifficulty, FieldMaxGroupSize, FieldRatingsAverage,
			FieldRatingsCount, FieldPrice, FieldDuration,
		},
	},
}
