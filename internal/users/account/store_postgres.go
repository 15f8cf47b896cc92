// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/trailhead/internal/platform/database/schema"
	"github.com/taibuivan/trailhead/internal/platform/dberr"
	"github.com/taibuivan/trailhead/internal/platform/postgres"
	"github.com/taibuivan/trailhead/internal/platform/resource"
	"github.com/taibuivan/trailhead/pkg/query"
)

// activeOnly restricts every directory read to active accounts.
var activeOnly = query.Eq(FieldActive, "true")

// Directory implements [Repository] on the users table.
type Directory struct {
	db    postgres.Querier
	store *resource.Store[Profile]
}

// NewDirectory creates the PostgreSQL account directory.
func NewDirectory(db postgres.Querier) *Directory {
	return &Directory{db: db, store: resource.NewStore[Profile](db, schema.Users)}
}

// FindByID returns an active account.
func (directory *Directory) FindByID(context context.Context, id string, populate ...string) (*Profile, error) {
	spec := query.Spec{Predicates: []query.Predicate{query.Eq("id", id), activeOnly}}
	return directory.store.FindOne(context, spec, populate...)
}

// Find lists active accounts matching spec.
func (directory *Directory) Find(context context.Context, spec query.Spec, populate ...string) ([]Profile, error) {
	spec.Predicates = append(spec.Predicates, activeOnly)
	return directory.store.Find(context, spec, populate...)
}

// Create inserts an account without credentials. Accounts are normally
// opened through signup.
func (directory *Directory) Create(context context.Context, profile *Profile) (*Profile, error) {
	return directory.store.Create(context, profile)
}

// Replace overwrites the writable profile columns.
func (directory *Directory) Replace(context context.Context, id string, profile *Profile) (*Profile, error) {
	return directory.store.Replace(context, id, profile)
}

// Delete deactivates the account; account rows are never removed.
func (directory *Directory) Delete(context context.Context, id string) (*Profile, error) {
	return directory.Deactivate(context, id)
}

// UpdateProfile changes the name and email of an active account.
func (directory *Directory) UpdateProfile(context context.Context, id, name, email string) (*Profile, error) {
	statement := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, email = $3, version = t.version + 1
		WHERE %s = $1::text::uuid AND t.active
		RETURNING %s`,
		schema.Users.From(), schema.Users.ID(), schema.Users.Document())

	return directory.returning(context, "update_profile", statement, id, name, email)
}

// Deactivate marks an active account inactive.
func (directory *Directory) Deactivate(context context.Context, id string) (*Profile, error) {
	statement := fmt.Sprintf(`
		UPDATE %s
		SET active = false, version = t.version + 1
		WHERE %s = $1::text::uuid AND t.active
		RETURNING %s`,
		schema.Users.From(), schema.Users.ID(), schema.Users.Document())

	return directory.returning(context, "deactivate", statement, id)
}

// returning runs a statement that yields one profile document.
func (directory *Directory) returning(context context.Context, operation, statement string, args ...any) (*Profile, error) {
	var profile Profile
	if err := directory.db.QueryRow(context, statement, args...).Scan(&profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "postgres_account_repo_"+operation+"_failed")
	}
	return &profile, nil
}
