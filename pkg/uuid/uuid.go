// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered identifiers for Trailhead records.

Values are UUID version 7: sortable by creation time and friendly to
PostgreSQL B-tree indexes, while remaining plain 'uuid' values in storage.
Tables still default to gen_random_uuid() for rows written outside the API.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}
