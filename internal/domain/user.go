package domain

import "time"

// UserKey is the compound identity of a user. It is unique across the
// store; the two fields are kept separate end to end and only joined
// into a single string for token subjects and log lines.
type UserKey struct {
	Email    string
	Platform string
}

func (k UserKey) IsZero() bool { return k.Email == "" || k.Platform == "" }

// String renders the canonical "email$platform" form. Display only;
// never use it as a storage key.
func (k UserKey) String() string { return k.Email + "$" + k.Platform }

// User is the persisted user record. PasswordHash holds the bcrypt hash
// and is never part of Details; Details carries the remaining opaque
// per-user attributes.
type User struct {
	Key          UserKey
	Username     string
	Role         Role
	PasswordHash string
	Details      map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
