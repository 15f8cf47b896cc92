// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
)

// Service implements the self-service profile use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// Me returns the profile of the given account.
func (service *Service) Me(context context.Context, id string) (*Profile, error) {
	profile, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("account_service_me_failed: %w", err)
	}
	if profile == nil {
		return nil, apperr.NotFound(definition.Name)
	}
	return profile, nil
}

/*
UpdateMe applies a partial update of name and email.

Description: Password fields are refused outright and pointed at the
dedicated route. Every other key besides name and email is ignored.
*/
func (service *Service) UpdateMe(context context.Context, id string, patch map[string]json.RawMessage) (*Profile, error) {
	for key := range patch {
		if slices.Contains(passwordFields, key) {
			return nil, apperr.BadRequest("This route is not for password updates, please use /updateMyPassword")
		}
	}

	profile, err := service.Me(context, id)
	if err != nil {
		return nil, err
	}

	for key, target := range map[string]*string{FieldName: &profile.Name, FieldEmail: &profile.Email} {
		raw, ok := patch[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, apperr.ValidationFailed("Invalid input data. " + key + " must be a string")
		}
	}

	profile.normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	updated, err := service.repository.UpdateProfile(context, id, profile.Name, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_me_failed: %w", err)
	}
	if updated == nil {
		return nil, apperr.NotFound(definition.Name)
	}
	return updated, nil
}

// DeleteMe deactivates the given account.
func (service *Service) DeleteMe(context context.Context, id string) error {
	profile, err := service.repository.Deactivate(context, id)
	if err != nil {
		return fmt.Errorf("account_service_delete_me_failed: %w", err)
	}
	if profile == nil {
		return apperr.NotFound(definition.Name)
	}

	service.logger.InfoContext(context, "account_deactivated", slog.String("user_id", id))
	return nil
}
