// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Known fault shapes are rewritten into operational errors with safe
// messages. Everything else is wrapped as non-operational so the response
// layer can hide it in production.
package dberr

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
)

// ErrNoRows re-exports the driver's sentinel so callers need not import pgx.
var ErrNoRows = pgx.ErrNoRows

// keyDetail extracts `(column)=(value)` from a unique-violation detail message.
var keyDetail = regexp.MustCompile(`\((.+?)\)=\((.*?)\)`)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// The action names the failed operation in the cause chain for logging.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified
	if apperr.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("document").WithCause(fmt.Errorf("%s: %w", action, err))
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		if mapped := fromSQLState(pgError); mapped != nil {
			return mapped.WithCause(fmt.Errorf("%s: %w", action, err))
		}
	}

	return fmt.Errorf("%s: %w", action, err)
}

// IsInvalidText reports whether err is a malformed literal for a typed
// column, such as a non-uuid string compared against a uuid key.
func IsInvalidText(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == pgerrcode.InvalidTextRepresentation
}

// fromSQLState maps the SQLSTATE classes that represent client mistakes.
func fromSQLState(pgError *pgconn.PgError) *apperr.AppError {
	switch pgError.Code {

	// Duplicate unique key
	case pgerrcode.UniqueViolation:
		field, value := "value", ""
		if match := keyDetail.FindStringSubmatch(pgError.Detail); len(match) == 3 {
			field, value = match[1], match[2]
		}
		return apperr.Conflict(fmt.Sprintf("Duplicate %s: %q, please use another value", field, value))

	// Malformed literal for a typed column, e.g. a non-uuid id
	case pgerrcode.InvalidTextRepresentation, pgerrcode.InvalidDatetimeFormat,
		pgerrcode.NumericValueOutOfRange, pgerrcode.InvalidParameterValue,
		pgerrcode.UndefinedFunction:
		return apperr.ValidationFailed("Invalid value: " + pgError.Message)

	// Schema-level validation
	case pgerrcode.NotNullViolation:
		return apperr.ValidationFailed("Validation failed",
			apperr.FieldError{Field: pgError.ColumnName, Message: "This field is required"})

	case pgerrcode.CheckViolation:
		return apperr.ValidationFailed("Validation failed: " + pgError.ConstraintName)

	case pgerrcode.ForeignKeyViolation:
		return apperr.ValidationFailed("Referenced document does not exist")
	}

	return nil
}
