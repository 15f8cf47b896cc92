// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tour

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/trailhead/internal/platform/database/schema"
	"github.com/taibuivan/trailhead/internal/platform/dberr"
	"github.com/taibuivan/trailhead/internal/platform/postgres"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/pkg/query"
)

// visible keeps secret tours out of every read.
var visible = query.Eq(FieldSecretTour, "false")

// haversine is the great-circle distance between the start location of t
// and the point ($1 lat, $2 lng), scaled by the earth radius in $3.
const haversine = `$3 * 2 * asin(sqrt(
	power(sin(radians((t.start_location->'coordinates'->>1)::float8 - $1) / 2), 2) +
	cos(radians($1)) * cos(radians((t.start_location->'coordinates'->>1)::float8)) *
	power(sin(radians((t.start_location->'coordinates'->>0)::float8 - $2) / 2), 2)))`

// Catalogue implements [Repository] on the tours table.
type Catalogue struct {
	db    postgres.Querier
	store *resource.Store[Tour]
}

// NewCatalogue creates the PostgreSQL tour catalogue.
func NewCatalogue(db postgres.Querier) *Catalogue {
	return &Catalogue{db: db, store: resource.NewStore[Tour](db, schema.Tours)}
}

// FindByID returns a visible tour.
func (catalogue *Catalogue) FindByID(context context.Context, id string, populate ...string) (*Tour, error) {
	spec := query.Spec{Predicates: []query.Predicate{query.Eq(FieldID, id), visible}}
	return catalogue.store.FindOne(context, spec, populate...)
}

// FindBySlug returns a visible tour by slug.
func (catalogue *Catalogue) FindBySlug(context context.Context, slug string, populate ...string) (*Tour, error) {
	spec := query.Spec{Predicates: []query.Predicate{query.Eq(FieldSlug, slug), visible}}
	return catalogue.store.FindOne(context, spec, populate...)
}

// Find lists the visible tours matching spec.
func (catalogue *Catalogue) Find(context context.Context, spec query.Spec, populate ...string) ([]Tour, error) {
	spec.Predicates = append(spec.Predicates, visible)
	return catalogue.store.Find(context, spec, populate...)
}

// Create inserts a tour. A tour created secret is stored but is not
// returned by later reads.
func (catalogue *Catalogue) Create(context context.Context, tour *Tour) (*Tour, error) {
	return catalogue.store.Create(context, tour)
}

// Replace overwrites a visible tour.
func (catalogue *Catalogue) Replace(context context.Context, id string, tour *Tour) (*Tour, error) {
	current, err := catalogue.FindByID(context, id)
	if err != nil || current == nil {
		return nil, err
	}
	return catalogue.store.Replace(context, id, tour)
}

// Delete removes a visible tour.
func (catalogue *Catalogue) Delete(context context.Context, id string) (*Tour, error) {
	current, err := catalogue.FindByID(context, id)
	if err != nil || current == nil {
		return nil, err
	}
	return catalogue.store.Delete(context, id)
}

// Stats groups tours rated 4.5 and above by difficulty.
func (catalogue *Catalogue) Stats(context context.Context) ([]DifficultyStats, error) {
	const statement = `
		SELECT
			upper(t.difficulty) AS difficulty,
			count(*)::int AS num_tours,
			coalesce(sum(t.ratings_quantity), 0)::int AS num_ratings,
			round(avg(t.ratings_average)::numeric, 2)::float8 AS avg_rating,
			round(avg(t.price)::numeric, 2)::float8 AS avg_price,
			min(t.price) AS min_price,
			max(t.price) AS max_price
		FROM tours AS t
		WHERE t.ratings_average >= 4.5 AND NOT t.secret_tour
		GROUP BY upper(t.difficulty)
		ORDER BY avg_price`

	return collect[DifficultyStats](context, catalogue.db, "stats", statement)
}

// MonthlyPlan counts the start dates falling in each month of year.
func (catalogue *Catalogue) MonthlyPlan(context context.Context, year int) ([]MonthPlan, error) {
	const statement = `
		SELECT
			extract(month FROM start_date)::int AS month,
			count(*)::int AS num_tour_starts,
			array_agg(t.name ORDER BY t.name) AS tours
		FROM tours AS t, unnest(t.start_dates) AS start_date
		WHERE NOT t.secret_tour
			AND start_date >= make_date($1::int, 1, 1)
			AND start_date < make_date($1::int + 1, 1, 1)
		GROUP BY month
		ORDER BY num_tour_starts DESC, month
		LIMIT 12`

	return collect[MonthPlan](context, catalogue.db, "monthly_plan", statement, year)
}

// Within returns the visible tours starting within distance of center.
func (catalogue *Catalogue) Within(context context.Context, center Point, distance float64, unit Unit) ([]Tour, error) {
	statement := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE NOT t.secret_tour AND t.start_location IS NOT NULL
			AND %s <= $4
		ORDER BY t.id`,
		schema.Tours.Document(), schema.Tours.From(), haversine)

	rows, err := catalogue.db.Query(context, statement, center.Latitude, center.Longitude, unit.EarthRadius(), distance)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_tour_repo_within_failed")
	}

	tours, err := pgx.CollectRows(rows, pgx.RowTo[Tour])
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_tour_repo_within_failed")
	}
	if tours == nil {
		tours = []Tour{}
	}
	return tours, nil
}

// Distances returns how far each visible tour starts from center.
func (catalogue *Catalogue) Distances(context context.Context, center Point, unit Unit) ([]Distance, error) {
	statement := fmt.Sprintf(`
		SELECT t.id::text AS id, t.name AS name, round((%s)::numeric, 3)::float8 AS distance
		FROM tours AS t
		WHERE NOT t.secret_tour AND t.start_location IS NOT NULL
		ORDER BY distance`,
		haversine)

	return collect[Distance](context, catalogue.db, "distances", statement,
		center.Latitude, center.Longitude, unit.EarthRadius())
}

// collect scans rows into T by column name.
func collect[T any](context context.Context, db postgres.Querier, operation, statement string, args ...any) ([]T, error) {
	rows, err := db.Query(context, statement, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_tour_repo_"+operation+"_failed")
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_tour_repo_"+operation+"_failed")
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
