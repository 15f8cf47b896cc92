// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/trailhead/internal/platform/dberr"
	"github.com/taibuivan/trailhead/internal/platform/postgres"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db postgres.Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// userColumns is the full credential-aware projection of an account.
const userColumns = `
	id::text, name, email, photo, role, active, created_at,
	password_hash, password_changed_at,
	COALESCE(password_reset_token, ''), password_reset_expires`

// scanUser reads one row produced with [userColumns].
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Photo,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.PasswordHash,
		&user.PasswordChangedAt,
		&user.PasswordResetToken,
		&user.PasswordResetExpires,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves an active account by its primary key.

A malformed id yields no account rather than a cast error. To the guard a
token naming an unparseable subject is a subject that no longer exists.
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1::uuid AND active`

	user, err := scanUser(repository.db.QueryRow(context, query, id))
	if dberr.IsInvalidText(err) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_id_failed")
	}
	return user, nil
}

// FindByEmail retrieves an active account by its unique email address.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = lower($1) AND active`

	user, err := scanUser(repository.db.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_email_failed")
	}
	return user, nil
}

/*
Create persists a new account.

Description: The id is chosen by the caller. Timestamps and the active flag
are assigned by the database and read back into user.

Returns:
  - error: apperr.Conflict on a duplicate email, or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (id, name, email, photo, role, password_hash, password_changed_at)
		VALUES ($1::text::uuid, $2, lower($3), $4, $5, $6, $7)
		RETURNING id::text, active, created_at`

	err := repository.db.QueryRow(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.Photo,
		user.Role,
		user.PasswordHash,
		user.PasswordChangedAt,
	).Scan(&user.ID, &user.Active, &user.CreatedAt)

	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_create_failed")
	}
	return nil
}

// UpdatePassword replaces only the password hash and its change stamp.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, hash string, changedAt time.Time) error {
	const query = `
		UPDATE users
		SET password_hash = $2, password_changed_at = $3, version = version + 1
		WHERE id = $1::text::uuid`

	if _, err := repository.db.Exec(context, query, userID, hash, changedAt); err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_password_failed")
	}
	return nil
}

// SetResetToken stores the digest of a pending reset.
func (repository *PostgresUserRepository) SetResetToken(context context.Context, userID, digest string, expires time.Time) error {
	const query = `
		UPDATE users
		SET password_reset_token = $2, password_reset_expires = $3
		WHERE id = $1::text::uuid`

	if _, err := repository.db.Exec(context, query, userID, digest, expires); err != nil {
		return dberr.Wrap(err, "postgres_user_repo_set_reset_token_failed")
	}
	return nil
}

// ClearResetToken removes any pending reset.
func (repository *PostgresUserRepository) ClearResetToken(context context.Context, userID string) error {
	const query = `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires = NULL
		WHERE id = $1::text::uuid`

	if _, err := repository.db.Exec(context, query, userID); err != nil {
		return dberr.Wrap(err, "postgres_user_repo_clear_reset_token_failed")
	}
	return nil
}

/*
ConsumeResetToken redeems a reset digest in a single statement.

Description: The match, the password overwrite and the clearing of the
reset state happen in one UPDATE, so two concurrent redemptions of the same
token cannot both succeed.
*/
func (repository *PostgresUserRepository) ConsumeResetToken(
	context context.Context,
	digest string,
	now time.Time,
	hash string,
	changedAt time.Time,
) (*User, error) {
	query := `
		UPDATE users
		SET password_hash = $3,
		    password_changed_at = $4,
		    password_reset_token = NULL,
		    password_reset_expires = NULL,
		    version = version + 1
		WHERE password_reset_token = $1 AND password_reset_expires > $2 AND active
		RETURNING ` + userColumns

	user, err := scanUser(repository.db.QueryRow(context, query, digest, now, hash, changedAt))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_consume_reset_failed")
	}
	return user, nil
}
