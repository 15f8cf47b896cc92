// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/database/schema"
	"github.com/taibuivan/trailhead/internal/platform/dberr"
	"github.com/taibuivan/trailhead/internal/platform/postgres"
	"github.com/taibuivan/trailhead/pkg/query"
)

// Store is the PostgreSQL [Repository] for any entity described by a
// [schema.Table].
//
// Rows are materialised as JSON documents with jsonb_build_object and
// decoded into T, so the entity's JSON tags are its storage mapping.
type Store[T any] struct {
	db    postgres.Querier
	table *schema.Table
}

// NewStore creates a store for table.
func NewStore[T any](db postgres.Querier, table *schema.Table) *Store[T] {
	return &Store[T]{db: db, table: table}
}

// Table returns the descriptor the store was built from.
func (store *Store[T]) Table() *schema.Table {
	return store.table
}

// WithDB returns a copy of the store bound to another querier, typically a
// transaction.
func (store *Store[T]) WithDB(db postgres.Querier) *Store[T] {
	return &Store[T]{db: db, table: store.table}
}

// FindByID returns the entity with the given id, expanding populate.
func (store *Store[T]) FindByID(context context.Context, id string, populate ...string) (*T, error) {
	statement := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1::text::uuid",
		store.table.Document(populate...), store.table.From(), store.table.ID())

	var entity T
	if err := store.db.QueryRow(context, statement, id).Scan(&entity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, store.action("find_by_id"))
	}
	return &entity, nil
}

// Find returns the entities matching spec.
func (store *Store[T]) Find(context context.Context, spec query.Spec, populate ...string) ([]T, error) {
	statement, args, err := store.selectStatement(spec, populate...)
	if err != nil {
		return nil, err
	}

	rows, err := store.db.Query(context, statement, args...)
	if err != nil {
		return nil, dberr.Wrap(err, store.action("find"))
	}

	entities, err := pgx.CollectRows(rows, pgx.RowTo[T])
	if err != nil {
		return nil, dberr.Wrap(err, store.action("find"))
	}
	if entities == nil {
		entities = []T{}
	}
	return entities, nil
}

// FindOne returns the first entity matching spec, or nil.
func (store *Store[T]) FindOne(context context.Context, spec query.Spec, populate ...string) (*T, error) {
	spec.Skip, spec.Limit = 0, 1
	entities, err := store.Find(context, spec, populate...)
	if err != nil || len(entities) == 0 {
		return nil, err
	}
	return &entities[0], nil
}

// Create inserts entity. Absent and null fields fall back to column defaults.
func (store *Store[T]) Create(context context.Context, entity *T) (*T, error) {
	document, err := store.columns(entity, true)
	if err != nil {
		return nil, err
	}

	var statement string
	if len(document) == 0 {
		statement = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING id::text", store.table.Name)
	} else {
		names := sortedKeys(document)
		list := strings.Join(names, ", ")
		statement = fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM jsonb_populate_record(NULL::%s, $1::jsonb) RETURNING id::text",
			store.table.Name, list, list, store.table.Name)
	}

	var id string
	args := []any{}
	if len(document) > 0 {
		args = append(args, document)
	}
	if err := store.db.QueryRow(context, statement, args...).Scan(&id); err != nil {
		return nil, dberr.Wrap(err, store.action("create"))
	}

	return store.FindByID(context, id)
}

// Replace overwrites every writable column with the state of entity.
func (store *Store[T]) Replace(context context.Context, id string, entity *T) (*T, error) {
	document, err := store.columns(entity, false)
	if err != nil {
		return nil, err
	}
	if len(document) == 0 {
		return store.FindByID(context, id)
	}

	names := sortedKeys(document)
	assignments := make([]string, 0, len(names))
	for _, name := range names {
		assignments = append(assignments, fmt.Sprintf("%s = r.%s", name, name))
	}

	statement := fmt.Sprintf(
		"UPDATE %s SET %s FROM jsonb_populate_record(NULL::%s, $2::jsonb) AS r WHERE %s = $1::text::uuid RETURNING %s::text",
		store.table.From(), strings.Join(assignments, ", "), store.table.Name, store.table.ID(), store.table.ID())

	var updated string
	if err := store.db.QueryRow(context, statement, id, document).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, store.action("replace"))
	}

	return store.FindByID(context, updated)
}

// Delete removes the entity and returns its last state.
func (store *Store[T]) Delete(context context.Context, id string) (*T, error) {
	statement := fmt.Sprintf("DELETE FROM %s WHERE %s = $1::text::uuid RETURNING %s",
		store.table.From(), store.table.ID(), store.table.Document())

	var entity T
	if err := store.db.QueryRow(context, statement, id).Scan(&entity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, store.action("delete"))
	}
	return &entity, nil
}

// # Statement Rendering

// selectStatement renders the projection, filter, order and window of spec.
func (store *Store[T]) selectStatement(spec query.Spec, populate ...string) (string, []any, error) {
	projection, err := store.table.Projection(spec, populate...)
	if err != nil {
		return "", nil, InvalidQuery(err)
	}

	catalog := store.table.Catalog()

	var args query.Args
	where, err := spec.Where(catalog, &args)
	if err != nil {
		return "", nil, InvalidQuery(err)
	}

	orderBy, err := spec.OrderBy(catalog)
	if err != nil {
		return "", nil, InvalidQuery(err)
	}

	var statement strings.Builder
	fmt.Fprintf(&statement, "SELECT %s FROM %s", projection, store.table.From())
	if where != "" {
		statement.WriteString(" WHERE " + where)
	}

	// The id tie-breaker keeps pages stable when sort keys repeat
	if orderBy != "" {
		statement.WriteString(" ORDER BY " + orderBy + ", " + store.table.ID())
	} else {
		statement.WriteString(" ORDER BY " + store.table.ID())
	}
	statement.WriteString(" " + spec.Window(&args))

	return statement.String(), args, nil
}

// columns converts entity to a column-keyed document of its writable fields.
// When creating, null fields are dropped so column defaults apply, and an
// explicit id is kept.
func (store *Store[T]) columns(entity *T, creating bool) (map[string]any, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", store.action("encode"), err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%s: %w", store.action("encode"), err)
	}

	document := make(map[string]any, len(fields))
	for key, value := range fields {
		if key == "id" {
			if id, ok := value.(string); creating && ok && id != "" {
				document["id"] = id
			}
			continue
		}
		if !store.table.Writable(key) || (creating && value == nil) {
			continue
		}

		if _, isRelation := store.table.Relation(key); isRelation {
			value = collapse(value)
		}

		name, _ := store.table.ColumnName(key)
		document[name] = value
	}

	return document, nil
}

// action names a store operation in error causes.
func (store *Store[T]) action(operation string) string {
	return "store_" + store.table.Name + "_" + operation + "_failed"
}

// collapse replaces embedded documents by their id, so that a populated
// reference is stored the same way as a bare one.
func collapse(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		if id, ok := typed["id"]; ok {
			return id
		}
		return typed
	case []any:
		collapsed := make([]any, len(typed))
		for index, item := range typed {
			collapsed[index] = collapse(item)
		}
		return collapsed
	default:
		return value
	}
}

func sortedKeys(document map[string]any) []string {
	keys := make([]string, 0, len(document))
	for key := range document {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// InvalidQuery converts a query builder or rendering error into a 400.
func InvalidQuery(err error) error {
	if errors.Is(err, query.ErrUnknownField) ||
		errors.Is(err, query.ErrUnknownOperator) ||
		errors.Is(err, query.ErrMixedProjection) {
		message := strings.TrimPrefix(err.Error(), "query: ")
		return apperr.ValidationFailed("Invalid query: " + message).WithCause(err)
	}
	return err
}
