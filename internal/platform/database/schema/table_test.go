// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trailhead/internal/platform/database/schema"
	"github.com/taibuivan/trailhead/pkg/query"
)

/*
TestProjection_Default renders visible columns and leaves hidden ones out.
*/
func TestProjection_Default(t *testing.T) {
	projection := schema.Reviews.Document()

	assert.Contains(t, projection, "'review', t.review")
	assert.Contains(t, projection, "'tour', t.tour_id")
	assert.NotContains(t, projection, "'version'")
}

/*
TestProjection_PrivateColumns never reads credential state back.
*/
func TestProjection_PrivateColumns(t *testing.T) {
	projection := schema.Users.Document()

	assert.Contains(t, projection, "'email', t.email")
	assert.NotContains(t, projection, "password")

	_, err := schema.Users.Projection(query.Spec{Fields: []string{"name", "password_hash"}})
	assert.ErrorIs(t, err, query.ErrUnknownField)
}

/*
TestProjection_Inclusion returns only the named keys plus the id.
*/
func TestProjection_Inclusion(t *testing.T) {
	projection, err := schema.Reviews.Projection(query.Spec{Fields: []string{"rating", "version"}})
	require.NoError(t, err)

	assert.Equal(t, "jsonb_build_object('id', t.id, 'rating', t.rating, 'version', t.version)", projection)
}

/*
TestProjection_Populate expands relations into embedded documents.
*/
func TestProjection_Populate(t *testing.T) {
	t.Run("one", func(t *testing.T) {
		projection, err := schema.Reviews.Projection(query.Spec{}, "user")
		require.NoError(t, err)

		assert.Contains(t, projection,
			"'user', (SELECT jsonb_build_object('id', r.id, 'name', r.name, 'photo', r.photo) FROM users AS r WHERE r.id = t.user_id)")
		assert.Contains(t, projection, "'tour', t.tour_id")
	})

	t.Run("many_keeps_order", func(t *testing.T) {
		projection := schema.Tours.Document("guides")
		assert.Contains(t, projection, "ORDER BY array_position(t.guides, r.id)")
	})

	t.Run("inverse_only_when_populated", func(t *testing.T) {
		assert.NotContains(t, schema.Tours.Document(), "'reviews'")
		assert.Contains(t, schema.Tours.Document("reviews"), "FROM reviews AS r WHERE r.tour_id = t.id")
	})
}

/*
TestCatalog maps keys to qualified expressions and casts.
*/
func TestCatalog(t *testing.T) {
	catalog := schema.Tours.Catalog()

	assert.Equal(t, query.Column{Key: "price", Expr: "t.price", Cast: "double precision"}, catalog["price"])
	assert.Equal(t, "round(t.duration / 7.0, 2)", catalog["duration_weeks"].Expr)

	_, ok := schema.Users.Catalog()["password_hash"]
	assert.False(t, ok)
}

/*
TestWritable separates client-assignable columns from database-owned ones.
*/
func TestWritable(t *testing.T) {
	assert.True(t, schema.Tours.Writable("price"))
	assert.False(t, schema.Tours.Writable("id"))
	assert.False(t, schema.Tours.Writable("duration_weeks"))
	assert.False(t, schema.Tours.Writable("created_at"))
	assert.False(t, schema.Tours.Writable("unknown"))
}
