// Package boundary holds the externally-facing representations of the
// service's entities. Boundary values are safe to transmit: they never
// carry password hashes, and converting to or from a model always
// produces a detached copy.
package boundary

// UserID is the external form of the compound user identity.
type UserID struct {
	Email    string `json:"email"`
	Platform string `json:"platform"`
}

// User is the external user representation. UserDetails is an open map
// of per-user attributes; on the inbound direction it may carry a
// "password" key, which is lifted out and hashed before anything is
// persisted. Outbound user details never contain a password.
type User struct {
	UserID      UserID         `json:"userId"`
	Role        string         `json:"role"`
	Username    string         `json:"username"`
	UserDetails map[string]any `json:"userDetails,omitempty"`
}

// UserPatch is a partial update to a user. Password is deliberately a
// separate field rather than a key inside Details: it is the one
// attribute that must be re-hashed before it may be merged.
type UserPatch struct {
	Username *string
	Password *string
	Details  map[string]any
}

// LoginResult is what a login returns. Token is empty for participants,
// who are identified rather than authenticated.
type LoginResult struct {
	Token string `json:"token,omitempty"`
	User  User   `json:"user"`
}
