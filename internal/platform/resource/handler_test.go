// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/internal/platform/validate"
	"github.com/taibuivan/trailhead/pkg/query"
)

type trip struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PriceDiscount float64 `json:"price_discount,omitempty"`
	Tour          string  `json:"tour,omitempty"`
}

// memoryRepository is an in-memory [resource.Repository].
type memoryRepository struct {
	items    map[string]trip
	sequence int
	lastSpec query.Spec
	dropNew  bool
}

func newMemoryRepository(items ...trip) *memoryRepository {
	repository := &memoryRepository{items: map[string]trip{}}
	for _, item := range items {
		repository.items[item.ID] = item
	}
	return repository
}

func (repository *memoryRepository) FindByID(_ context.Context, id string, _ ...string) (*trip, error) {
	item, ok := repository.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (repository *memoryRepository) Find(_ context.Context, spec query.Spec, _ ...string) ([]trip, error) {
	repository.lastSpec = spec
	result := []trip{}
	for _, item := range repository.items {
		result = append(result, item)
	}
	return result, nil
}

func (repository *memoryRepository) Create(_ context.Context, entity *trip) (*trip, error) {
	if repository.dropNew {
		return nil, nil
	}
	repository.sequence++
	entity.ID = fmt.Sprintf("trip-%d", repository.sequence)
	repository.items[entity.ID] = *entity
	return entity, nil
}

func (repository *memoryRepository) Replace(_ context.Context, id string, entity *trip) (*trip, error) {
	if _, ok := repository.items[id]; !ok {
		return nil, nil
	}
	entity.ID = id
	repository.items[id] = *entity
	return entity, nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) (*trip, error) {
	item, ok := repository.items[id]
	if !ok {
		return nil, nil
	}
	delete(repository.items, id)
	return &item, nil
}

var tripDefinition = resource.Definition[trip]{
	Name: "trip",
	Prepare: func(entity *trip) error {
		entity.Name = strings.TrimSpace(entity.Name)
		return nil
	},
	Validate: func(entity *trip) error {
		validator := &validate.Validator{}
		validator.Required("name", entity.Name).
			Custom("price_discount", entity.PriceDiscount >= entity.Price && entity.PriceDiscount > 0,
				"Discount price should be below regular price")
		return validator.Err()
	},
	Writable: []string{"name", "price", "price_discount"},
	Query:    query.Options{DefaultSort: "price", Hidden: []string{"version"}},
}

func router(repository *memoryRepository) http.Handler {
	handler := resource.NewHandler[trip](repository, tripDefinition)

	mux := chi.NewRouter()
	mux.Get("/trips", handler.List(resource.Listing{}))
	mux.Post("/trips", handler.Create())
	mux.Get("/trips/{id}", handler.Get())
	mux.Patch("/trips/{id}", handler.Update())
	mux.Delete("/trips/{id}", handler.Delete())
	mux.Get("/tours/{tourId}/trips", handler.List(resource.Listing{
		Scopes: []resource.Scope{resource.Param("tourId", "tour")},
	}))
	return mux
}

func serve(t *testing.T, handler http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var envelope map[string]any
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	}
	return recorder, envelope
}

/*
TestCreate covers the success envelope, validation and the NotCreated guard.
*/
func TestCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		recorder, envelope := serve(t, router(newMemoryRepository()), http.MethodPost, "/trips", `{"name":" The Sea Explorer ","price":497}`)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, "success", envelope["status"])
		document := envelope["data"].(map[string]any)["data"].(map[string]any)
		assert.Equal(t, "The Sea Explorer", document["name"])
		assert.Equal(t, "trip-1", document["id"])
	})

	t.Run("missing_required_field", func(t *testing.T) {
		recorder, envelope := serve(t, router(newMemoryRepository()), http.MethodPost, "/trips", `{"price":497}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "fail", envelope["status"])
		assert.Equal(t, "VALIDATION_FAILED", envelope["code"])
	})

	t.Run("invalid_json", func(t *testing.T) {
		recorder, _ := serve(t, router(newMemoryRepository()), http.MethodPost, "/trips", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("store_returns_nothing", func(t *testing.T) {
		repository := newMemoryRepository()
		repository.dropNew = true

		recorder, envelope := serve(t, router(repository), http.MethodPost, "/trips", `{"name":"The Sea Explorer","price":497}`)
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Equal(t, "error", envelope["status"])
	})
}

/*
TestGet_NotFound reports the entity name in the message.
*/
func TestGet_NotFound(t *testing.T) {
	recorder, envelope := serve(t, router(newMemoryRepository()), http.MethodGet, "/trips/missing", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "No trip found with that id", envelope["message"])
}

/*
TestUpdate merges the patch and validates the merged state.
*/
func TestUpdate(t *testing.T) {
	seed := trip{ID: "trip-1", Name: "The Forest Hiker", Price: 397, Tour: "tour-1"}

	t.Run("partial_patch_keeps_other_fields", func(t *testing.T) {
		repository := newMemoryRepository(seed)
		recorder, _ := serve(t, router(repository), http.MethodPatch, "/trips/trip-1", `{"price":450,"tour":"other"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)
		stored := repository.items["trip-1"]
		assert.Equal(t, 450.0, stored.Price)
		assert.Equal(t, "The Forest Hiker", stored.Name)
		assert.Equal(t, "tour-1", stored.Tour, "non-writable keys are ignored")
	})

	t.Run("merged_state_is_validated", func(t *testing.T) {
		repository := newMemoryRepository(seed)
		recorder, envelope := serve(t, router(repository), http.MethodPatch, "/trips/trip-1", `{"price_discount":500}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, envelope["message"], "price_discount")
		assert.Equal(t, 0.0, repository.items["trip-1"].PriceDiscount)
	})

	t.Run("missing", func(t *testing.T) {
		recorder, _ := serve(t, router(newMemoryRepository()), http.MethodPatch, "/trips/nope", `{"price":1}`)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

/*
TestDelete returns 204 with no body, or NotFound.
*/
func TestDelete(t *testing.T) {
	repository := newMemoryRepository(trip{ID: "trip-1", Name: "The Park Camper", Price: 1497})

	recorder, _ := serve(t, router(repository), http.MethodDelete, "/trips/trip-1", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Zero(t, recorder.Body.Len())
	assert.Empty(t, repository.items)

	recorder, envelope := serve(t, router(repository), http.MethodDelete, "/trips/trip-1", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "fail", envelope["status"])
}

/*
TestList merges the ancestor scope with request filters.
*/
func TestList(t *testing.T) {
	repository := newMemoryRepository(trip{ID: "trip-1", Name: "The Wine Taster", Price: 1997})

	recorder, envelope := serve(t, router(repository), http.MethodGet, "/tours/tour-9/trips?price[lt]=2000&sort=-price&page=2&limit=5", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, float64(1), envelope["results"])
	assert.Len(t, envelope["data"].(map[string]any)["data"], 1)

	spec := repository.lastSpec
	assert.Equal(t, []query.Predicate{
		{Field: "price", Op: query.OpLt, Value: "2000"},
		{Field: "tour", Op: query.OpEq, Value: "tour-9"},
	}, spec.Predicates)
	assert.Equal(t, []query.SortField{{Field: "price", Desc: true}}, spec.Sort)
	assert.Equal(t, 5, spec.Skip)
	assert.Equal(t, 5, spec.Limit)
}

/*
TestList_InvalidQuery rejects unknown bracket operators with 400.
*/
func TestList_InvalidQuery(t *testing.T) {
	recorder, envelope := serve(t, router(newMemoryRepository()), http.MethodGet, "/trips?price[ne]=5", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_FAILED", envelope["code"])
}
