// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trailhead/internal/api"
)

type probeBody struct {
	Status string `json:"status"`
	Data   struct {
		Status string `json:"status"`
		App    string `json:"app"`
		Checks []struct {
			Name  string `json:"name"`
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		} `json:"checks"`
	} `json:"data"`
}

func probe(t *testing.T, handler http.HandlerFunc) (int, probeBody) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	var body probeBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func healthy(context.Context) error { return nil }

/*
TestLiveness reports the process as alive without touching dependencies.
*/
func TestLiveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(api.HealthDependencies{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	code, body := probe(t, liveness)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "ok", body.Data.Status)
	assert.Equal(t, "trailhead-api", body.Data.App)
}

/*
TestReadiness covers the ready, degraded and cache-less cases.
*/
func TestReadiness(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		deps       api.HealthDependencies
		wantCode   int
		wantStatus string
		wantChecks int
	}{
		{
			name:       "all healthy",
			deps:       api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantChecks: 2,
		},
		{
			name:       "without redis",
			deps:       api.HealthDependencies{CheckDatabase: healthy},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantChecks: 1,
		},
		{
			name: "database down",
			deps: api.HealthDependencies{
				CheckDatabase: func(context.Context) error { return errors.New("connection refused") },
				CheckCache:    healthy,
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			wantChecks: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(tt.deps, logger)

			code, body := probe(t, readiness)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body.Data.Status)
			assert.Len(t, body.Data.Checks, tt.wantChecks)
		})
	}
}
