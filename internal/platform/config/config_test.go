// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trailhead/internal/platform/config"
)

/*
TestLoad_Defaults checks that only the required keys need to be set.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/trailhead")
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 90*24*time.Hour, cfg.CookieTTL())
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, time.Hour, cfg.RateLimitWindow)
	assert.False(t, cfg.PaymentsEnabled())
}

/*
TestLoad_MissingRequired fails without a database URL.
*/
func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "dev-secret")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_ProductionSecret rejects short secrets in production.
*/
func TestLoad_ProductionSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/trailhead")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "short")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_Origins splits the comma separated origin list.
*/
func TestLoad_Origins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/trailhead")
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("EXTRA_ORIGINS", "https://a.trailhead.io,https://b.trailhead.io")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.trailhead.io", "https://b.trailhead.io"}, cfg.ExtraOrigins)
}
