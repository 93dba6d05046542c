package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a user can hold. Roles are flat: no role
// implies another.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleSalesManager   Role = "SALES_MANAGER"
	RoleSalesExecutive Role = "SALES_EXECUTIVE"
)

// DefaultRole is assigned at registration when none is requested.
const DefaultRole = RoleSalesExecutive

// AllRoles lists every role, in display order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleSalesManager, RoleSalesExecutive}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSalesManager, RoleSalesExecutive:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole converts s into a Role. Matching is case-insensitive so that
// "admin" and "ADMIN" resolve to the same role; anything outside the set fails.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// UnmarshalText rejects roles outside the closed set.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r), nil
}
