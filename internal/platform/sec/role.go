// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "time"

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Manages the tour catalogue and its guides
	RoleLeadGuide UserRole = "lead-guide"

	// Leads tours; may view operational plans
	RoleGuide UserRole = "guide"

	// Default role for registered customers
	RoleUser UserRole = "user"
)

// Roles lists every valid role.
var Roles = []UserRole{RoleAdmin, RoleLeadGuide, RoleGuide, RoleUser}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// In reports whether r is a member of the permitted set.
//
// Roles are a flat set rather than a hierarchy: an admin is not implicitly
// allowed on a route restricted to "user".
func (r UserRole) In(permitted ...UserRole) bool {
	for _, role := range permitted {
		if r == role {
			return true
		}
	}
	return false
}

// # Principal

// Principal is the resolved identity attached to an authenticated request.
type Principal struct {
	ID    string
	Name  string
	Email string
	Photo string
	Role  UserRole

	// IssuedAt is the issuance time of the token that authenticated the request.
	IssuedAt time.Time
}

// Is reports whether the principal owns the given user id.
func (p *Principal) Is(userID string) bool {
	return p != nil && p.ID == userID
}
