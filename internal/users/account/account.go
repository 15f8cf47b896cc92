// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages user profiles: a user's own profile (/me,
/updateMe, /deleteMe) and the admin directory of accounts.

# Architecture

  - Profile: The public shape of an account. Credentials never appear here.
  - Directory: A [resource.Repository] over the users table that only ever
    sees active accounts. Deleting through it deactivates.
  - Service: Self-service profile updates.

Admin endpoints reuse the generic resource handler over the directory.
*/
package account

import (
	"context"
	"strings"
	"time"

	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/internal/platform/sec"
	"github.com/taibuivan/trailhead/internal/platform/validate"
)

// # Domain Entities

// Profile is the public view of an account.
type Profile struct {
	ID        string       `json:"id,omitempty"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Photo     string       `json:"photo,omitempty"`
	Role      sec.UserRole `json:"role,omitempty"`
	Active    *bool        `json:"active,omitempty"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
}

// Validate checks the complete profile state.
func (profile *Profile) Validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldName, profile.Name).
		Required(FieldEmail, profile.Email).
		Email(FieldEmail, profile.Email).
		Custom(FieldRole, profile.Role != "" && !profile.Role.Valid(), "Role is not supported")
	return validator.Err()
}

// normalize trims the name and lowercases the email.
func (profile *Profile) normalize() {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
}

// # Field Identifiers

const (
	FieldName   = "name"
	FieldEmail  = "email"
	FieldPhoto  = "photo"
	FieldRole   = "role"
	FieldActive = "active"
)

// passwordFields are rejected by the self-service update.
var passwordFields = []string{"password", "password_confirm", "password_current"}

// # Repository Contracts

// Repository is the account persistence contract.
type Repository interface {
	resource.Repository[Profile]

	/*
		UpdateProfile changes the name and email of an active account.

		Returns:
		  - *Profile: The updated profile, or nil when the account is gone
		  - error: Conflict on a taken email, or storage failures
	*/
	UpdateProfile(context context.Context, id, name, email string) (*Profile, error)

	/*
		Deactivate marks an active account inactive.

		Returns:
		  - *Profile: The last state, or nil when already inactive or missing
		  - error: Storage failures
	*/
	Deactivate(context context.Context, id string) (*Profile, error)
}

// definition configures the admin resource handler.
var definition = resource.Definition[Profile]{
	Name: "user",
	Prepare: func(profile *Profile) error {
		profile.normalize()
		return nil
	},
	Validate: func(profile *Profile) error {
		return profile.Validate()
	},
	Writable: []string{FieldName, FieldEmail, FieldPhoto, FieldRole},
}
