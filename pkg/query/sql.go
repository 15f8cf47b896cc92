// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrUnknownField is returned when a spec names a field outside the catalog.
var ErrUnknownField = errors.New("query: unknown field")

// Column maps a public field key to its SQL expression.
type Column struct {
	// Key is the JSON field name clients use.
	Key string

	// Expr is the SQL expression, qualified with the table alias.
	Expr string

	// Cast is the SQL type filter parameters are cast to. Empty means text.
	Cast string
}

// Catalog is the set of fields a spec may filter and sort on.
type Catalog map[string]Column

// NewCatalog indexes columns by key.
func NewCatalog(columns ...Column) Catalog {
	catalog := make(Catalog, len(columns))
	for _, column := range columns {
		catalog[column.Key] = column
	}
	return catalog
}

// Args accumulates positional parameters for a statement.
type Args []any

// Add appends value and returns its placeholder.
func (args *Args) Add(value any) string {
	*args = append(*args, value)
	return "$" + strconv.Itoa(len(*args))
}

// comparators maps scalar operators to SQL.
var comparators = map[Operator]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

// Where renders the predicates joined with AND. It returns an empty string
// when there are none.
func (spec Spec) Where(catalog Catalog, args *Args) (string, error) {
	clauses := make([]string, 0, len(spec.Predicates))

	for _, predicate := range spec.Predicates {
		column, ok := catalog[predicate.Field]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, predicate.Field)
		}

		cast := column.Cast
		if cast == "" {
			cast = "text"
		}

		if predicate.Op == OpIn {
			placeholder := args.Add(stringList(predicate.Value))
			clauses = append(clauses, fmt.Sprintf("%s = ANY(%s::text[]::%s[])", column.Expr, placeholder, cast))
			continue
		}

		comparator, ok := comparators[predicate.Op]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownOperator, predicate.Op)
		}

		placeholder := args.Add(fmt.Sprint(predicate.Value))
		clauses = append(clauses, fmt.Sprintf("%s %s %s::text::%s", column.Expr, comparator, placeholder, cast))
	}

	return strings.Join(clauses, " AND "), nil
}

// OrderBy renders the sort list, or an empty string when unsorted.
func (spec Spec) OrderBy(catalog Catalog) (string, error) {
	parts := make([]string, 0, len(spec.Sort))

	for _, field := range spec.Sort {
		column, ok := catalog[field.Field]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, field.Field)
		}

		direction := "ASC"
		if field.Desc {
			direction = "DESC"
		}
		parts = append(parts, column.Expr+" "+direction)
	}

	return strings.Join(parts, ", "), nil
}

// Window renders LIMIT and OFFSET.
//
// A negative skip reads from the start and a negative limit is taken by
// absolute value.
func (spec Spec) Window(args *Args) string {
	skip, limit := max(spec.Skip, 0), spec.Limit
	if limit < 0 {
		limit = -limit
	}

	if limit == 0 {
		return "OFFSET " + args.Add(skip)
	}
	return "LIMIT " + args.Add(limit) + " OFFSET " + args.Add(skip)
}

// Selects reports whether the projection returns key. The "id" field is
// always returned.
func (spec Spec) Selects(key string) bool {
	if key == "id" {
		return true
	}
	if len(spec.Fields) > 0 {
		return slices.Contains(spec.Fields, key)
	}
	return !slices.Contains(spec.Exclude, key)
}

// CheckFields rejects projected keys that are not in known.
func (spec Spec) CheckFields(known func(key string) bool) error {
	for _, key := range spec.Fields {
		if !known(key) {
			return fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
	}
	return nil
}

// stringList normalizes an IN value to []string.
func stringList(value any) []string {
	switch typed := value.(type) {
	case []string:
		return typed
	case string:
		return []string{typed}
	default:
		return []string{fmt.Sprint(typed)}
	}
}
