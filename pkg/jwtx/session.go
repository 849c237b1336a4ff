// Package jwtx mints and verifies the signed session tokens handed to the UI
// at login. A token only carries the user id; discarding it on the client is
// a logout, no server-side session state exists.
package jwtx

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a session token stays valid. Long on purpose:
// this is a single-user local app, not a shared web service.
const DefaultSessionTTL = 30 * 24 * time.Hour

// ErrInvalidToken reports a token that failed signature or claim validation.
var ErrInvalidToken = errors.New("jwtx: invalid session token")

// SessionSigner mints and verifies HS256 session tokens.
type SessionSigner struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

// NewSessionSigner builds a signer from an existing key. TTL of zero falls
// back to DefaultSessionTTL.
func NewSessionSigner(key []byte, issuer string, ttl time.Duration) *SessionSigner {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionSigner{key: key, issuer: issuer, ttl: ttl}
}

// NewEphemeralSessionSigner generates a random signing key. Sessions minted
// with it die with the process, which is acceptable default behaviour.
func NewEphemeralSessionSigner(issuer string, ttl time.Duration) (*SessionSigner, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("jwtx: generate session key: %w", err)
	}
	return NewSessionSigner(key, issuer, ttl), nil
}

// Mint creates a signed session token with the user id as subject.
func (s *SessionSigner) Mint(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Verify checks signature, issuer and expiry, returning the user id.
func (s *SessionSigner) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
