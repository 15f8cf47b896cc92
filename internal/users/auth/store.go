// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the credential-aware data access contract for
// accounts. Lookups return (nil, nil) when no active account matches.
type UserRepository interface {

	/*
		FindByID returns the active account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity, or nil when missing or inactive
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the active account with the given email,
		including its password hash.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity, or nil when missing or inactive
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a new account and fills its generated fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Conflict on a duplicate email, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces the password hash and stamps the change.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - hash: string
		  - changedAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, hash string, changedAt time.Time) error

	/*
		SetResetToken stores the digest of a reset token and its expiry.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - digest: string
		  - expires: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetResetToken(context context.Context, userID, digest string, expires time.Time) error

	/*
		ClearResetToken removes any pending reset state.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearResetToken(context context.Context, userID string) error

	/*
		ConsumeResetToken atomically matches an unexpired reset digest,
		replaces the password and clears the reset state in one step, so a
		token can succeed at most once.

		Parameters:
		  - context: context.Context
		  - digest: string
		  - now: time.Time
		  - hash: string
		  - changedAt: time.Time

		Returns:
		  - *User: The updated account, or nil when no token matched
		  - error: Persistence failures
	*/
	ConsumeResetToken(context context.Context, digest string, now time.Time, hash string, changedAt time.Time) (*User, error)
}
