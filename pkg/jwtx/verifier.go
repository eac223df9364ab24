package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks a raw token's signature and expiry and returns its
// claims. The core services never call this; it belongs to the request
// boundary.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// HS256Verifier verifies tokens signed with the shared HMAC secret.
type HS256Verifier struct {
	secret []byte
	issuer string
}

// NewHS256Verifier wraps the shared secret. A non-empty issuer is
// enforced on every verified token.
func NewHS256Verifier(secret []byte, issuer string) (*HS256Verifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty verification secret")
	}
	return &HS256Verifier{secret: secret, issuer: issuer}, nil
}

func (v *HS256Verifier) Verify(raw string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalidToken
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
