// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for account passwords.
const PasswordCost = 12

/*
HashPassword derives the stored bcrypt hash of an account password.

Description: A cost of zero selects [PasswordCost]. Tests and the dev data
seeder pass [bcrypt.MinCost].

Returns:
  - string: The encoded hash, salt included
  - error: Wrapped bcrypt failure (e.g. password longer than 72 bytes)
*/
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = PasswordCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("password_hash_failed: %w", err)
	}
	return string(hash), nil
}

// PasswordMatches reports whether password produces the stored hash.
func PasswordMatches(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
