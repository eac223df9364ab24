package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer turns claims into a signed token string.
type Signer interface {
	// Sign signs the claims. It must refuse claims without an identity.
	Sign(claims Claims) (string, error)

	// Alg reports the JOSE algorithm name.
	Alg() string
}

// HS256Signer signs tokens with a shared HMAC-SHA256 secret.
type HS256Signer struct {
	secret []byte
}

// NewHS256Signer wraps the server-held signing secret.
func NewHS256Signer(secret []byte) (*HS256Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}
	return &HS256Signer{secret: secret}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign produces the compact JWT form of claims. Tokens are only issued
// for a concrete identity; a missing subject is a programming error
// surfaced as ErrNoIdentity.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	if claims.Subject == "" {
		return "", ErrNoIdentity
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}
