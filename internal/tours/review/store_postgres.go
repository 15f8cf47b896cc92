// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/trailhead/internal/platform/database/schema"
	"github.com/taibuivan/trailhead/internal/platform/dberr"
	"github.com/taibuivan/trailhead/internal/platform/postgres"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/pkg/query"
)

// recalculate refreshes the rating statistics of one tour. A tour without
// reviews falls back to the default average.
const recalculate = `
	UPDATE tours AS t
	SET ratings_quantity = s.quantity,
		ratings_average = s.average,
		version = t.version + 1
	FROM (
		SELECT count(*)::int AS quantity,
			coalesce(round(avg(rating)::numeric, 1), 4.5)::float8 AS average
		FROM reviews
		WHERE tour_id = $1::text::uuid
	) AS s
	WHERE t.id = $1::text::uuid`

// Repository is the review persistence contract.
type Repository = resource.Repository[Review]

// RatedStore implements [Repository] and keeps tour ratings in step with
// the reviews.
type RatedStore struct {
	pool    *pgxpool.Pool
	reviews *resource.Store[Review]
}

// NewRatedStore creates the PostgreSQL review store.
func NewRatedStore(pool *pgxpool.Pool) *RatedStore {
	return &RatedStore{pool: pool, reviews: resource.NewStore[Review](pool, schema.Reviews)}
}

// FindByID returns one review.
func (store *RatedStore) FindByID(context context.Context, id string, populate ...string) (*Review, error) {
	return store.reviews.FindByID(context, id, populate...)
}

// Find lists the reviews matching spec.
func (store *RatedStore) Find(context context.Context, spec query.Spec, populate ...string) ([]Review, error) {
	return store.reviews.Find(context, spec, populate...)
}

// Create inserts a review and refreshes its tour's ratings.
func (store *RatedStore) Create(context context.Context, review *Review) (*Review, error) {
	return store.write(context, func(reviews *resource.Store[Review]) (*Review, error) {
		return reviews.Create(context, review)
	})
}

// Replace updates a review and refreshes its tour's ratings.
func (store *RatedStore) Replace(context context.Context, id string, review *Review) (*Review, error) {
	return store.write(context, func(reviews *resource.Store[Review]) (*Review, error) {
		return reviews.Replace(context, id, review)
	})
}

// Delete removes a review and refreshes its tour's ratings.
func (store *RatedStore) Delete(context context.Context, id string) (*Review, error) {
	return store.write(context, func(reviews *resource.Store[Review]) (*Review, error) {
		return reviews.Delete(context, id)
	})
}

// write runs a review mutation and the ratings refresh in one transaction.
func (store *RatedStore) write(context context.Context, mutate func(reviews *resource.Store[Review]) (*Review, error)) (*Review, error) {
	var result *Review

	err := postgres.InTx(context, store.pool, func(tx pgx.Tx) error {
		review, err := mutate(store.reviews.WithDB(tx))
		if err != nil || review == nil {
			return err
		}

		if err := Recalculate(context, tx, review.Tour.ID); err != nil {
			return err
		}

		result = review
		return nil
	})
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_review_repo_write_failed")
	}
	return result, nil
}

// Recalculate refreshes the rating statistics of tourID.
func Recalculate(context context.Context, db postgres.Querier, tourID string) error {
	if _, err := db.Exec(context, recalculate, tourID); err != nil {
		return dberr.Wrap(err, "postgres_review_repo_recalculate_failed")
	}
	return nil
}
