// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/trailhead/internal/platform/request"
	"github.com/taibuivan/trailhead/internal/platform/respond"
	"github.com/taibuivan/trailhead/pkg/query"
)

// # Definitions

// Definition supplies the entity-specific steps of the generic operations.
type Definition[T any] struct {
	// Name is used in messages, e.g. "No tour found with that id".
	Name string

	// Assign fills fields that come from the route or the principal rather
	// than the payload. It runs on create only.
	Assign func(request *http.Request, entity *T) error

	// Prepare derives fields from others (slugs, defaults). It runs on
	// create and again on the merged state of an update.
	Prepare func(entity *T) error

	// Validate checks the complete entity state.
	Validate func(entity *T) error

	// Writable limits the payload keys an update may change. Empty allows
	// every key the store considers writable.
	Writable []string

	// Query configures the list builder.
	Query query.Options
}

// Handler exposes the uniform CRUD operations for one entity type.
type Handler[T any] struct {
	repository Repository[T]
	definition Definition[T]
}

// NewHandler creates a handler over repository.
func NewHandler[T any](repository Repository[T], definition Definition[T]) *Handler[T] {
	return &Handler[T]{repository: repository, definition: definition}
}

// # Operations

// Create decodes the payload, runs the entity steps and persists it.
func (handler *Handler[T]) Create() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		entity := new(T)
		if err := requestutil.DecodeJSON(request, entity); err != nil {
			return err
		}

		if handler.definition.Assign != nil {
			if err := handler.definition.Assign(request, entity); err != nil {
				return err
			}
		}
		if err := handler.check(entity); err != nil {
			return err
		}

		created, err := handler.repository.Create(request.Context(), entity)
		if err != nil {
			return err
		}
		if created == nil {
			return apperr.NotCreated(handler.definition.Name)
		}

		ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "resource_created",
			slog.String("resource", handler.definition.Name))

		respond.Resource(writer, http.StatusCreated, created)
		return nil
	})
}

// Get returns one entity with the given relations expanded.
func (handler *Handler[T]) Get(populate ...string) http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		entity, err := handler.repository.FindByID(request.Context(), requestutil.ID(request), populate...)
		if err != nil {
			return err
		}
		if entity == nil {
			return apperr.NotFound(handler.definition.Name)
		}

		respond.Resource(writer, http.StatusOK, entity)
		return nil
	})
}

// Update merges a partial payload into the stored entity, re-runs the
// entity steps on the merged state and replaces it.
func (handler *Handler[T]) Update() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		id := requestutil.ID(request)

		var patch map[string]json.RawMessage
		if err := requestutil.DecodeJSON(request, &patch); err != nil {
			return err
		}

		current, err := handler.repository.FindByID(request.Context(), id)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.NotFound(handler.definition.Name)
		}

		merged, err := handler.merge(current, patch)
		if err != nil {
			return err
		}
		if err := handler.check(merged); err != nil {
			return err
		}

		updated, err := handler.repository.Replace(request.Context(), id, merged)
		if err != nil {
			return err
		}
		if updated == nil {
			return apperr.NotFound(handler.definition.Name)
		}

		respond.Resource(writer, http.StatusOK, updated)
		return nil
	})
}

// Delete physically removes the entity.
func (handler *Handler[T]) Delete() http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		deleted, err := handler.repository.Delete(request.Context(), requestutil.ID(request))
		if err != nil {
			return err
		}
		if deleted == nil {
			return apperr.NotFound(handler.definition.Name)
		}

		ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "resource_deleted",
			slog.String("resource", handler.definition.Name))

		respond.NoContent(writer)
		return nil
	})
}

// # Listing

// Scope contributes fixed predicates to a list request.
type Scope func(request *http.Request) []query.Predicate

// Listing configures a list operation.
type Listing struct {
	Scopes   []Scope
	Populate []string
}

// Param scopes a list to the URL parameter name, stored in field. An absent
// parameter leaves the list unscoped.
func Param(name, field string) Scope {
	return func(request *http.Request) []query.Predicate {
		value := requestutil.Param(request, name)
		if value == "" {
			return nil
		}
		return []query.Predicate{query.Eq(field, value)}
	}
}

// Where scopes a list with constant predicates.
func Where(predicates ...query.Predicate) Scope {
	return func(*http.Request) []query.Predicate {
		return predicates
	}
}

// List runs the query builder over the request parameters and the scopes.
func (handler *Handler[T]) List(listing Listing) http.HandlerFunc {
	return respond.Handle(func(writer http.ResponseWriter, request *http.Request) error {
		builder := query.New(request.URL.Query(), handler.definition.Query).Filter()
		for _, scope := range listing.Scopes {
			builder.Scope(scope(request)...)
		}

		spec, err := builder.Sort().Fields().Paginate().Spec()
		if err != nil {
			return InvalidQuery(err)
		}

		entities, err := handler.repository.Find(request.Context(), spec, listing.Populate...)
		if err != nil {
			return err
		}

		respond.List(writer, entities, len(entities))
		return nil
	})
}

// # Steps

// check runs the preparation and validation steps.
func (handler *Handler[T]) check(entity *T) error {
	if handler.definition.Prepare != nil {
		if err := handler.definition.Prepare(entity); err != nil {
			return err
		}
	}
	if handler.definition.Validate != nil {
		return handler.definition.Validate(entity)
	}
	return nil
}

// merge overlays the writable keys of patch onto current.
func (handler *Handler[T]) merge(current *T, patch map[string]json.RawMessage) (*T, error) {
	raw, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}

	var state map[string]json.RawMessage
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}

	for key, value := range patch {
		if key == "id" || !handler.writable(key) {
			continue
		}
		state[key] = value
	}

	raw, err = json.Marshal(state)
	if err != nil {
		return nil, err
	}

	merged := new(T)
	if err := json.Unmarshal(raw, merged); err != nil {
		return nil, apperr.ValidationFailed("Invalid input data. " + err.Error())
	}
	return merged, nil
}

func (handler *Handler[T]) writable(key string) bool {
	return len(handler.definition.Writable) == 0 || slices.Contains(handler.definition.Writable, key)
}
