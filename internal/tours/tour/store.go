// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tour

import (
	"context"

	"github.com/taibuivan/trailhead/internal/platform/resource"
)

// # Read Models

// DifficultyStats aggregates the well-rated tours of one difficulty.
type DifficultyStats struct {
	Difficulty string  `json:"difficulty" db:"difficulty"`
	NumTours   int     `json:"num_tours" db:"num_tours"`
	NumRatings int     `json:"num_ratings" db:"num_ratings"`
	AvgRating  float64 `json:"avg_rating" db:"avg_rating"`
	AvgPrice   float64 `json:"avg_price" db:"avg_price"`
	MinPrice   float64 `json:"min_price" db:"min_price"`
	MaxPrice   float64 `json:"max_price" db:"max_price"`
}

// MonthPlan lists the tours starting in one month.
type MonthPlan struct {
	Month         int      `json:"month" db:"month"`
	NumTourStarts int      `json:"num_tour_starts" db:"num_tour_starts"`
	Tours         []string `json:"tours" db:"tours"`
}

// Distance is how far a tour starts from a search center.
type Distance struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Distance float64 `json:"distance" db:"distance"`
}

// # Repository Contracts

// Repository is the tour persistence contract. Every read excludes secret tours.
type Repository interface {
	resource.Repository[Tour]

	/*
		FindBySlug returns the visible tour with the given slug.

		Returns:
		  - *Tour: Hydrated tour, or nil when none matches
		  - error: Storage failures
	*/
	FindBySlug(context context.Context, slug string, populate ...string) (*Tour, error)

	// Stats groups tours rated 4.5 and above by difficulty, cheapest first.
	Stats(context context.Context) ([]DifficultyStats, error)

	// MonthlyPlan counts tour starts per month of year, busiest first.
	MonthlyPlan(context context.Context, year int) ([]MonthPlan, error)

	// Within returns tours starting within distance of center.
	Within(context context.Context, center Point, distance float64, unit Unit) ([]Tour, error)

	// Distances returns every tour's distance from center, nearest first.
	Distances(context context.Context, center Point, unit Unit) ([]Distance, error)
}
