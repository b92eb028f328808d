package domain

import (
	"fmt"
	"strings"
)

// Role is a user's privilege level. The zero value is not a valid role, so an
// unparsed or missing role can never pass an authorization check.
type Role uint8

const (
	RoleGuest Role = iota + 1
	RoleCleaning
	RoleReceptionist
	RoleManager
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleGuest:        "guest",
	RoleCleaning:     "cleaning",
	RoleReceptionist: "receptionist",
	RoleManager:      "manager",
	RoleAdmin:        "admin",
}

// ParseRole converts the wire name of a role into a Role.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role: invalid value %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoleSet is an explicit, closed set of roles. Membership is never inferred
// from the role ordering.
type RoleSet uint8

// NewRoleSet builds a set from the given roles. Invalid roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		if r.Valid() {
			s |= 1 << r
		}
	}
	return s
}

// Has reports whether r is a member of s.
func (s RoleSet) Has(r Role) bool {
	return r.Valid() && s&(1<<r) != 0
}

// Roles lists the members of s from least to most privileged.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(roleNames))
	for r := RoleGuest; r <= RoleAdmin; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Canonical role groups used by every route and service check.
var (
	AdminOnly           = NewRoleSet(RoleAdmin)
	ManagerOrAbove      = NewRoleSet(RoleAdmin, RoleManager)
	ReceptionistOrAbove = NewRoleSet(RoleAdmin, RoleManager, RoleReceptionist)
	Staff               = NewRoleSet(RoleAdmin, RoleManager, RoleReceptionist, RoleCleaning)
)
