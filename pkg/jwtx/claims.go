// Package jwtx issues and verifies the bearer tokens handed out on login.
// Tokens are stateless: validity is signature plus expiry, there is no
// revocation list.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the fallback token lifetime when no explicit TTL is
// configured.
const DefaultTokenTTL = 99999 * time.Second

var (
	ErrNoIdentity   = errors.New("jwtx: claims carry no identity")
	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrIssuer       = errors.New("jwtx: unexpected issuer")
)

// Claims are the access-token claims. The subject is the user's email and
// Platform completes the compound identity; together they name exactly one
// user record.
type Claims struct {
	jwt.RegisteredClaims

	// Platform is the second half of the compound user identity.
	Platform string `json:"platform,omitempty"`

	// Role the identity held when the token was issued.
	Role string `json:"role,omitempty"`

	// Username is the display name, carried for visibility only.
	Username string `json:"username,omitempty"`
}

// NewIdentityClaims builds minimally-correct claims for a user identity.
func NewIdentityClaims(
	email, platform, role, username string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Platform: platform,
		Role:     role,
		Username: username,
	}
}

// ValidateIssuer checks the issuer against an expected value. An empty
// expectation enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrExpired
	}

	return nil
}
