// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trailhead/pkg/query"
)

var tourOptions = query.Options{
	DefaultSort: "ratings_average",
	Hidden:      []string{"version"},
	Multi:       []string{"duration", "difficulty", "price"},
}

func parse(t *testing.T, raw string) query.Spec {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)

	spec, err := query.Parse(values, tourOptions)
	require.NoError(t, err)
	return spec
}

/*
TestFilter_ComparisonRewrite turns price[gte]=500 into a gte predicate.
*/
func TestFilter_ComparisonRewrite(t *testing.T) {
	spec := parse(t, "price[gte]=500&difficulty=easy")

	assert.Equal(t, []query.Predicate{
		{Field: "difficulty", Op: query.OpEq, Value: "easy"},
		{Field: "price", Op: query.OpGte, Value: "500"},
	}, spec.Predicates)
}

/*
TestFilter_ReservedKeys never turns control keys into predicates.
*/
func TestFilter_ReservedKeys(t *testing.T) {
	spec := parse(t, "sort=price&page=2&fields=name&limit=5&duration[lt]=10")

	require.Len(t, spec.Predicates, 1)
	for _, predicate := range spec.Predicates {
		assert.NotContains(t, query.Reserved, predicate.Field)
	}
	assert.Equal(t, query.OpLt, spec.Predicates[0].Op)
}

/*
TestFilter_Pollution keeps repeated values only for whitelisted fields.
*/
func TestFilter_Pollution(t *testing.T) {
	spec := parse(t, "duration=5&duration=9&name=a&name=b")

	assert.Equal(t, []query.Predicate{
		{Field: "duration", Op: query.OpIn, Value: []string{"5", "9"}},
		{Field: "name", Op: query.OpEq, Value: "b"},
	}, spec.Predicates)
}

/*
TestFilter_UnknownOperator rejects operators outside gt, gte, lt and lte.
*/
func TestFilter_UnknownOperator(t *testing.T) {
	values, err := url.ParseQuery("price[regex]=1")
	require.NoError(t, err)

	_, err = query.Parse(values, tourOptions)
	assert.ErrorIs(t, err, query.ErrUnknownOperator)
}

/*
TestSort parses ordered fields with the descending marker.
*/
func TestSort(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []query.SortField
	}{
		{"default", "", []query.SortField{{Field: "ratings_average"}}},
		{"multi", "sort=-price,ratings_average", []query.SortField{
			{Field: "price", Desc: true},
			{Field: "ratings_average"},
		}},
		{"blank_entries", "sort=,name,", []query.SortField{{Field: "name"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parse(t, tt.query).Sort)
		})
	}
}

/*
TestFields covers inclusion, exclusion and the hidden default.
*/
func TestFields(t *testing.T) {
	t.Run("default_hides_version", func(t *testing.T) {
		spec := parse(t, "")
		assert.Empty(t, spec.Fields)
		assert.False(t, spec.Selects("version"))
		assert.True(t, spec.Selects("name"))
	})

	t.Run("inclusion", func(t *testing.T) {
		spec := parse(t, "fields=name,price")
		assert.True(t, spec.Selects("name"))
		assert.True(t, spec.Selects("id"))
		assert.False(t, spec.Selects("summary"))
	})

	t.Run("exclusion", func(t *testing.T) {
		spec := parse(t, "fields=-summary")
		assert.False(t, spec.Selects("summary"))
		assert.False(t, spec.Selects("version"))
		assert.True(t, spec.Selects("price"))
	})

	t.Run("mixed", func(t *testing.T) {
		values, _ := url.ParseQuery("fields=name,-price")
		_, err := query.Parse(values, tourOptions)
		assert.ErrorIs(t, err, query.ErrMixedProjection)
	})
}

/*
TestPaginate checks skip and limit for explicit and default pages.
*/
func TestPaginate(t *testing.T) {
	spec := parse(t, "page=2&limit=10")
	assert.Equal(t, 10, spec.Skip)
	assert.Equal(t, 10, spec.Limit)

	spec = parse(t, "")
	assert.Equal(t, 0, spec.Skip)
	assert.Equal(t, 100, spec.Limit)
}

/*
TestScope appends ancestor predicates after request filters.
*/
func TestScope(t *testing.T) {
	values, _ := url.ParseQuery("rating[gte]=4")
	spec, err := query.New(values, query.Options{}).Filter().Scope(query.Eq("tour", "t-1")).Spec()
	require.NoError(t, err)

	assert.Equal(t, []query.Predicate{
		{Field: "rating", Op: query.OpGte, Value: "4"},
		{Field: "tour", Op: query.OpEq, Value: "t-1"},
	}, spec.Predicates)
}

/*
TestNew_DoesNotMutateInput leaves the caller's values untouched.
*/
func TestNew_DoesNotMutateInput(t *testing.T) {
	values := url.Values{"sort": {"price"}, "name": {"x"}}
	_, err := query.Parse(values, tourOptions)
	require.NoError(t, err)

	assert.Equal(t, url.Values{"sort": {"price"}, "name": {"x"}}, values)
}
