package domain

import "fmt"

// Role governs access to the bulk user operations. The set is fixed;
// there is no role administration surface.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleResearcher  Role = "RESEARCHER"
	RoleParticipant Role = "PARTICIPANT"
)

// ParseRole validates a role string from the boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleResearcher, RoleParticipant:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// Authenticated reports whether the role logs in with credentials.
// Participants are identified, not authenticated with secrets.
func (r Role) Authenticated() bool { return r != RoleParticipant }
