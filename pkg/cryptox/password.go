// Package cryptox holds the credential hashing primitives used by the
// identity service. Hashes are one-way and salted; callers only ever see
// the encoded hash string.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor. Fixed on purpose: every stored hash
// records its own cost, so raising this later only affects new hashes.
const hashCost = bcrypt.DefaultCost

// ErrMismatch reports that a plaintext password does not match the stored
// hash. Callers must map this to their own credential failure and never
// surface it as an infrastructure error.
var ErrMismatch = errors.New("cryptox: password does not match")

// HashPassword hashes a plaintext password with a freshly generated salt
// and returns the encoded hash string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against an encoded hash.
// A mismatch returns ErrMismatch; anything else means the stored hash is
// malformed.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return fmt.Errorf("cryptox: verify password: %w", err)
}
