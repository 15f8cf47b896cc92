// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"context"

	"github.com/taibuivan/trailhead/internal/platform/database/schema"
	"github.com/taibuivan/trailhead/internal/platform/postgres"
	"github.com/taibuivan/trailhead/internal/platform/resource"
)

// Repository is the booking persistence contract.
type Repository = resource.Repository[Booking]

// NewStore creates the PostgreSQL booking store.
func NewStore(db postgres.Querier) *resource.Store[Booking] {
	return resource.NewStore[Booking](db, schema.Bookings)
}

// Recorder counts created bookings by source.
type Recorder interface {
	BookingCreated(source string)
}

// counted records every booking created through it.
type counted struct {
	Repository
	recorder Recorder
	source   string
}

// Counted wraps repository so that every successful create is recorded
// under source.
func Counted(repository Repository, recorder Recorder, source string) Repository {
	return &counted{Repository: repository, recorder: recorder, source: source}
}

// Create inserts a booking and records it.
func (repository *counted) Create(context context.Context, booking *Booking) (*Booking, error) {
	created, err := repository.Repository.Create(context, booking)
	if err == nil && created != nil {
		repository.recorder.BookingCreated(repository.source)
	}
	return created, err
}
