// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package query translates untyped request parameters into a composed
retrieval [Spec]: filter predicates, sort order, field projection and
pagination.

The [Builder] is chained the same way on every list endpoint:

	spec, err := query.New(request.URL.Query(), options).
		Filter().
		Sort().
		Fields().
		Paginate().
		Spec()

Building a spec has no side effects. Stores render it to SQL with the
helpers in sql.go, which reject fields outside the entity's [Catalog].
*/
package query

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/taibuivan/trailhead/pkg/pagination"
)

// # Operators

// Operator is a comparison applied by a [Predicate].
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

// bracketOperators are the comparison suffixes accepted as field[op]=value.
var bracketOperators = map[string]Operator{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

// Reserved keys control the query shape and are never predicates.
var Reserved = []string{"sort", "page", "fields", "limit"}

var (
	// ErrUnknownOperator is returned for field[op] keys with an unsupported op.
	ErrUnknownOperator = errors.New("query: unknown operator")

	// ErrMixedProjection is returned when fields mixes inclusions and exclusions.
	ErrMixedProjection = errors.New("query: cannot mix included and excluded fields")
)

// # Spec

// Predicate restricts results on one field. Value is a string for scalar
// operators and a []string for [OpIn].
type Predicate struct {
	Field string
	Op    Operator
	Value any
}

// Eq builds an equality predicate.
func Eq(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: value}
}

// SortField orders results on one field.
type SortField struct {
	Field string
	Desc  bool
}

// Spec is the composed, per-request retrieval specification.
type Spec struct {
	Predicates []Predicate
	Sort       []SortField

	// Fields is an inclusion projection. When empty, every field except
	// those in Exclude is returned.
	Fields  []string
	Exclude []string

	Skip  int
	Limit int
}

// Options configures a [Builder] for one entity.
type Options struct {
	// DefaultSort is the ascending sort applied when none is requested.
	DefaultSort string

	// Hidden fields are left out unless explicitly projected.
	Hidden []string

	// Multi fields keep every repeated value as an [OpIn] predicate.
	// Any other repeated field keeps only its last value.
	Multi []string
}

// # Builder

// Builder composes a [Spec] from query values.
type Builder struct {
	values  url.Values
	options Options
	spec    Spec
	err     error
}

// New creates a builder over a copy of values.
func New(values url.Values, options Options) *Builder {
	cloned := make(url.Values, len(values))
	for key, list := range values {
		cloned[key] = slices.Clone(list)
	}
	return &Builder{values: cloned, options: options}
}

// Filter turns every non-reserved key into a predicate.
//
// Keys of the form field[gte] become comparisons; plain keys are equality.
// Values are kept as strings; the storage layer casts them to the column type.
func (builder *Builder) Filter() *Builder {
	keys := make([]string, 0, len(builder.values))
	for key := range builder.values {
		if !slices.Contains(Reserved, key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	for _, key := range keys {
		values := builder.values[key]
		if len(values) == 0 {
			continue
		}

		field, operator, err := splitKey(key)
		if err != nil {
			builder.fail(err)
			return builder
		}

		// Parameter pollution: whitelisted fields keep all values
		if operator == OpEq && len(values) > 1 && slices.Contains(builder.options.Multi, field) {
			builder.spec.Predicates = append(builder.spec.Predicates, Predicate{Field: field, Op: OpIn, Value: values})
			continue
		}

		builder.spec.Predicates = append(builder.spec.Predicates, Predicate{
			Field: field,
			Op:    operator,
			Value: values[len(values)-1],
		})
	}

	return builder
}

// Scope merges fixed predicates, such as a parent id, into the spec.
func (builder *Builder) Scope(predicates ...Predicate) *Builder {
	builder.spec.Predicates = append(builder.spec.Predicates, predicates...)
	return builder
}

// Sort parses "sort=a,-b" into ascending a then descending b.
func (builder *Builder) Sort() *Builder {
	builder.spec.Sort = nil

	for _, field := range splitList(builder.last("sort")) {
		if name, found := strings.CutPrefix(field, "-"); found {
			builder.spec.Sort = append(builder.spec.Sort, SortField{Field: name, Desc: true})
			continue
		}
		builder.spec.Sort = append(builder.spec.Sort, SortField{Field: field})
	}

	if len(builder.spec.Sort) == 0 && builder.options.DefaultSort != "" {
		builder.spec.Sort = []SortField{{Field: builder.options.DefaultSort}}
	}

	return builder
}

// Fields parses "fields=a,b" into an inclusion projection, or "fields=-a"
// into an exclusion. Hidden fields stay excluded in the exclusion form.
func (builder *Builder) Fields() *Builder {
	builder.spec.Fields = nil
	builder.spec.Exclude = slices.Clone(builder.options.Hidden)

	requested := splitList(builder.last("fields"))
	if len(requested) == 0 {
		return builder
	}

	var included, excluded []string
	for _, field := range requested {
		if name, found := strings.CutPrefix(field, "-"); found {
			excluded = append(excluded, name)
			continue
		}
		included = append(included, field)
	}

	switch {
	case len(included) > 0 && len(excluded) > 0:
		builder.fail(ErrMixedProjection)
	case len(included) > 0:
		builder.spec.Fields = included
		builder.spec.Exclude = nil
	default:
		builder.spec.Exclude = append(builder.spec.Exclude, excluded...)
	}

	return builder
}

// Paginate computes skip and limit from "page" and "limit".
func (builder *Builder) Paginate() *Builder {
	params := pagination.FromValues(builder.values)
	builder.spec.Skip = params.Offset()
	builder.spec.Limit = params.Limit
	return builder
}

// Spec returns the composed spec, or the first parse error.
func (builder *Builder) Spec() (Spec, error) {
	if builder.err != nil {
		return Spec{}, builder.err
	}
	return builder.spec, nil
}

// Parse runs the full chain over values.
func Parse(values url.Values, options Options) (Spec, error) {
	return New(values, options).Filter().Sort().Fields().Paginate().Spec()
}

// # Helpers

// last returns the final value of a repeated key.
func (builder *Builder) last(key string) string {
	values := builder.values[key]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// fail keeps the first error only.
func (builder *Builder) fail(err error) {
	if builder.err == nil {
		builder.err = err
	}
}

// splitKey separates "price[gte]" into its field and operator.
func splitKey(key string) (string, Operator, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, OpEq, nil
	}

	field, token := key[:open], key[open+1:len(key)-1]
	operator, ok := bracketOperators[token]
	if !ok || field == "" {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownOperator, strconv.Quote(key))
	}
	return field, operator, nil
}

// splitList splits a comma separated list, dropping blanks.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(raw, ",") {
		if clean := strings.TrimSpace(part); clean != "" {
			result = append(result, clean)
		}
	}
	return result
}
