// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the session and identity guard.

It issues signed session tokens on signup and login, verifies them on every
protected request, authorizes by role, and runs the password reset and
password change flows.

# Architecture

  - Service: Credential checks, token issuance and the password flows.
  - Guard: Pipeline stages (Protect, IsLoggedIn, RestrictTo) for routes.
  - Handler: The /users authentication endpoints and the session cookie.
  - UserRepository: Credential-aware access to the users table.

Token validity is re-derived on every request: the signature and expiry are
checked, then the subject is re-read so that deactivated users and tokens
issued before a password change are rejected.
*/
package auth

import (
	"time"

	"github.com/taibuivan/trailhead/internal/platform/sec"
)

// # Domain Entities

// User is a registered account.
type User struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Photo     string       `json:"photo"`
	Role      sec.UserRole `json:"role"`
	Active    bool         `json:"-"`
	CreatedAt time.Time    `json:"created_at"`

	// Credential state is never serialized.
	PasswordHash         string     `json:"-"`
	PasswordChangedAt    *time.Time `json:"-"`
	PasswordResetToken   string     `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
}

// DefaultPhoto is assigned to accounts created without one.
const DefaultPhoto = "default.jpg"

// Principal returns the identity attached to authenticated requests.
func (user *User) Principal(issuedAt time.Time) *sec.Principal {
	return &sec.Principal{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Photo:    user.Photo,
		Role:     user.Role,
		IssuedAt: issuedAt,
	}
}

// ChangedPasswordAfter reports whether the password changed after a token
// was issued. Both times are compared at second resolution, the precision
// of the token's iat claim.
func (user *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if user.PasswordChangedAt == nil {
		return false
	}
	return user.PasswordChangedAt.Unix() > issuedAt.Unix()
}

// # Field Identifiers

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPasswordConfirm = "password_confirm"
	FieldPasswordCurrent = "password_current"
	FieldToken           = "token"
)
