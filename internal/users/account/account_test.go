// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/sec"
	"github.com/taibuivan/trailhead/internal/platform/testkit"
	"github.com/taibuivan/trailhead/internal/users/account"
	"github.com/taibuivan/trailhead/pkg/query"
)

// memoryDirectory is an in-memory [account.Repository].
type memoryDirectory struct {
	profiles map[string]*account.Profile
	inactive map[string]bool
}

func newMemoryDirectory(profiles ...account.Profile) *memoryDirectory {
	directory := &memoryDirectory{profiles: map[string]*account.Profile{}, inactive: map[string]bool{}}
	for _, profile := range profiles {
		directory.profiles[profile.ID] = &profile
	}
	return directory
}

func (directory *memoryDirectory) FindByID(_ context.Context, id string, _ ...string) (*account.Profile, error) {
	profile, ok := directory.profiles[id]
	if !ok || directory.inactive[id] {
		return nil, nil
	}
	clone := *profile
	return &clone, nil
}

func (directory *memoryDirectory) Find(_ context.Context, _ query.Spec, _ ...string) ([]account.Profile, error) {
	result := []account.Profile{}
	for id, profile := range directory.profiles {
		if !directory.inactive[id] {
			result = append(result, *profile)
		}
	}
	return result, nil
}

func (directory *memoryDirectory) Create(_ context.Context, profile *account.Profile) (*account.Profile, error) {
	directory.profiles[profile.ID] = profile
	return profile, nil
}

func (directory *memoryDirectory) Replace(_ context.Context, id string, profile *account.Profile) (*account.Profile, error) {
	profile.ID = id
	directory.profiles[id] = profile
	return profile, nil
}

func (directory *memoryDirectory) Delete(context context.Context, id string) (*account.Profile, error) {
	return directory.Deactivate(context, id)
}

func (directory *memoryDirectory) UpdateProfile(_ context.Context, id, name, email string) (*account.Profile, error) {
	profile, ok := directory.profiles[id]
	if !ok || directory.inactive[id] {
		return nil, nil
	}
	profile.Name, profile.Email = name, email
	return profile, nil
}

func (directory *memoryDirectory) Deactivate(_ context.Context, id string) (*account.Profile, error) {
	profile, ok := directory.profiles[id]
	if !ok || directory.inactive[id] {
		return nil, nil
	}
	directory.inactive[id] = true
	return profile, nil
}

func newRouter(directory *memoryDirectory) http.Handler {
	service := account.NewService(directory, slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := account.NewHandler(service, directory, testkit.HeaderGuard{})

	router := chi.NewRouter()
	router.Route("/api/v1/users", handler.Register)
	return router
}

var (
	laura = account.Profile{ID: "u1", Name: "Laura Wilson", Email: "laura@example.com", Role: sec.RoleUser}
	admin = account.Profile{ID: "a1", Name: "Jonas Schmedtmann", Email: "admin@example.com", Role: sec.RoleAdmin}
)

/*
TestMe returns the caller's own profile.
*/
func TestMe(t *testing.T) {
	router := newRouter(newMemoryDirectory(laura))

	recorder := testkit.Call(router, http.MethodGet, "/api/v1/users/me", "u1:user", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"email":"laura@example.com"`)

	recorder = testkit.Call(router, http.MethodGet, "/api/v1/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestUpdateMe changes name and email only and refuses password fields.
*/
func TestUpdateMe(t *testing.T) {
	t.Run("name_and_email", func(t *testing.T) {
		directory := newMemoryDirectory(laura)
		router := newRouter(directory)

		recorder := testkit.Call(router, http.MethodPatch, "/api/v1/users/updateMe", "u1:user",
			`{"name":" Laura W. ","email":"LAURA.W@example.com","role":"admin"}`)
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		stored := directory.profiles["u1"]
		assert.Equal(t, "Laura W.", stored.Name)
		assert.Equal(t, "laura.w@example.com", stored.Email)
		assert.Equal(t, sec.RoleUser, stored.Role)
	})

	t.Run("password_rejected", func(t *testing.T) {
		router := newRouter(newMemoryDirectory(laura))

		recorder := testkit.Call(router, http.MethodPatch, "/api/v1/users/updateMe", "u1:user", `{"password":"newpass123"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "/updateMyPassword")
	})

	t.Run("invalid_email", func(t *testing.T) {
		router := newRouter(newMemoryDirectory(laura))

		recorder := testkit.Call(router, http.MethodPatch, "/api/v1/users/updateMe", "u1:user", `{"email":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), apperr.CodeValidationFailed)
	})
}

/*
TestDeleteMe deactivates and hides the account afterwards.
*/
func TestDeleteMe(t *testing.T) {
	directory := newMemoryDirectory(laura, admin)
	router := newRouter(directory)

	recorder := testkit.Call(router, http.MethodDelete, "/api/v1/users/deleteMe", "u1:user", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.True(t, directory.inactive["u1"])
	assert.Contains(t, directory.profiles, "u1")

	recorder = testkit.Call(router, http.MethodGet, "/api/v1/users/a1", "a1:admin", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = testkit.Call(router, http.MethodGet, "/api/v1/users/u1", "a1:admin", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

/*
TestDirectory_AdminOnly restricts the directory routes to admins.
*/
func TestDirectory_AdminOnly(t *testing.T) {
	router := newRouter(newMemoryDirectory(laura, admin))

	recorder := testkit.Call(router, http.MethodGet, "/api/v1/users", "u1:user", "")
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = testkit.Call(router, http.MethodGet, "/api/v1/users", "a1:admin", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Results int `json:"results"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Results)

	recorder = testkit.Call(router, http.MethodPost, "/api/v1/users", "a1:admin", `{}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "/signup")
}

/*
TestDirectory_AdminUpdate validates the role against the known set.
*/
func TestDirectory_AdminUpdate(t *testing.T) {
	directory := newMemoryDirectory(laura, admin)
	router := newRouter(directory)

	recorder := testkit.Call(router, http.MethodPatch, "/api/v1/users/u1", "a1:admin", `{"role":"guide"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, sec.RoleGuide, directory.profiles["u1"].Role)

	recorder = testkit.Call(router, http.MethodPatch, "/api/v1/users/u1", "a1:admin", `{"role":"emperor"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
