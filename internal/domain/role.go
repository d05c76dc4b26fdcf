package domain

import (
	"fmt"
	"strings"
)

// Role enumerates the two principal kinds known to the platform.
type Role string

const (
	RoleListener   Role = "LISTENER"
	RoleSpecialist Role = "SPECIALIST"
)

// ParseRole normalizes free-form role input into the closed enumeration.
// This is the only place role strings are compared loosely; everywhere else
// operates on the canonical constants.
func ParseRole(raw string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(RoleListener):
		return RoleListener, nil
	case string(RoleSpecialist):
		return RoleSpecialist, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Valid reports whether the role is one of the canonical constants.
func (r Role) Valid() bool {
	return r == RoleListener || r == RoleSpecialist
}
