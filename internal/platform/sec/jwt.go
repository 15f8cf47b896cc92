// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing) from
// the domain logic. The session guard consumes it through the
// [TokenService] sign and verify pair.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid is returned for malformed tokens or bad signatures.
	ErrTokenInvalid = errors.New("sec: token invalid")

	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("sec: token expired")
)

// SessionClaims is the payload embedded inside a session token.
//
// Only the subject and timestamps are carried; role and status are always
// re-read from storage during verification.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService creates a new TokenService. A nil clock uses [time.Now].
func NewTokenService(secret, issuer string, clock func() time.Time) *TokenService {
	if clock == nil {
		clock = time.Now
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, now: clock}
}

// Sign creates a signed token for subjectID that expires after timeToLive.
func (service *TokenService) Sign(subjectID string, timeToLive time.Duration) (string, error) {
	currentTime := service.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and expiry of a token and returns its subject
// and issuance time.
func (service *TokenService) Verify(tokenString string) (subjectID string, issuedAt time.Time, err error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(service.now),
		jwt.WithExpirationRequired(),
	)

	claims := &SessionClaims{}
	_, err = parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return service.secret, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", time.Time{}, ErrTokenExpired
	case err != nil:
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.Subject == "" || claims.IssuedAt == nil {
		return "", time.Time{}, ErrTokenInvalid
	}

	return claims.Subject, claims.IssuedAt.Time, nil
}
