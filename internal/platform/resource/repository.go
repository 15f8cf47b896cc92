// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package resource implements the generic CRUD layer shared by tours, reviews,
bookings and the admin user routes.

Architecture:

  - Repository: the capability an entity store must offer.
  - Store: the single PostgreSQL implementation, driven by a schema.Table.
  - Handler: five uniform HTTP operations with one response envelope.
  - Definition: the explicit preparation and validation steps of an entity.

Entity-specific behavior never hides in the store. Anything that must
happen on write is a named step in the [Definition] or a decorator around
the [Repository].
*/
package resource

import (
	"context"

	"github.com/taibuivan/trailhead/pkg/query"
)

// Repository is the persistence capability required by [Handler].
//
// FindByID, Replace and Delete return a nil entity and a nil error when no
// row matches; the handler turns that into NotFound.
type Repository[T any] interface {
	FindByID(ctx context.Context, id string, populate ...string) (*T, error)
	Find(ctx context.Context, spec query.Spec, populate ...string) ([]T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Replace(ctx context.Context, id string, entity *T) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}
