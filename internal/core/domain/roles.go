package domain

import "strings"

// Role represents user role in the system
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleClient Role = "client"
	RoleAgent  Role = "agent"

	// Legacy roles still returned by the API for old accounts. They never reach a dashboard.
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
)

// LoginPath is where unauthenticated visitors are sent
const LoginPath = "/login"

var knownRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleOwner:   true,
	RoleClient:  true,
	RoleAgent:   true,
	RoleStudent: true,
	RoleTeacher: true,
	RoleParent:  true,
}

var dashboardPaths = map[Role]string{
	RoleAdmin:  "/admin/dashboard",
	RoleOwner:  "/owner/dashboard",
	RoleClient: "/client/dashboard",
	RoleAgent:  "/agent/dashboard",
}

// ParseRole normalizes a role string and checks it against the role enumeration
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !knownRoles[r] {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Valid reports whether r belongs to the role enumeration
func (r Role) Valid() bool {
	return knownRoles[r]
}

// IsLegacy reports whether r is one of the roles kept only for old accounts
func (r Role) IsLegacy() bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleParent
}

// DashboardPath returns the landing route for a role, or the login route when the
// role has no dashboard.
func DashboardPath(r Role) string {
	if p, ok := dashboardPaths[r]; ok {
		return p
	}
	return LoginPath
}

// RoleSet is a set of roles allowed to do something
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet, ignoring unknown names
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r.Valid() {
			set[r] = struct{}{}
		}
	}
	return set
}

// ParseRoleSet parses a comma separated list such as "admin,owner,client"
func ParseRoleSet(csv string) (RoleSet, error) {
	set := RoleSet{}
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		r, err := ParseRole(part)
		if err != nil {
			return nil, err
		}
		set[r] = struct{}{}
	}
	return set, nil
}

// Has reports whether r is in the set
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}
