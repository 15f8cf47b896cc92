// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Password Rules

const (
	// PasswordMinLength is the shortest accepted password.
	PasswordMinLength = 8

	// NameMaxLength bounds display names.
	NameMaxLength = 60
)

// # Messages

const (
	msgPasswordsDiffer = "Passwords are not the same"
	msgResetSent       = "Token sent to email!"
)

// # Routes

const (
	// ResetPath is the public path a reset link points at. The plaintext
	// token is appended.
	ResetPath = "/api/v1/users/resetPassword/"

	// AccountPath is the page linked from the welcome mail.
	AccountPath = "/me"
)
