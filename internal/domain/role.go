package domain

import (
	"errors"
	"strings"
)

// Role is one of the canonical account roles.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleArtist   Role = "ARTIST"
	RoleAdmin    Role = "ADMIN"
)

// AuthorityPrefix is prepended to a role to form the authority checked by route gates.
const AuthorityPrefix = "ROLE_"

// ErrInvalidRole is returned when a role string does not canonicalize.
var ErrInvalidRole = errors.New("invalid role")

// Roles lists every canonical role.
func Roles() []Role {
	return []Role{RoleCustomer, RoleArtist, RoleAdmin}
}

// IsValid reports whether r is a canonical role.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleArtist, RoleAdmin:
		return true
	default:
		return false
	}
}

// Authority returns the ROLE_ prefixed form of the role.
func (r Role) Authority() string {
	return AuthorityPrefix + string(r)
}

func (r Role) String() string {
	return string(r)
}

// NormalizeRole canonicalizes raw by trimming, upper-casing and stripping a leading ROLE_.
// Blank input is rejected.
func NormalizeRole(raw string) (Role, error) {
	candidate := strings.ToUpper(strings.TrimSpace(raw))
	candidate = strings.TrimPrefix(candidate, AuthorityPrefix)

	role := Role(candidate)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// NormalizeAccountRole is NormalizeRole for new accounts and issued tokens:
// a blank role defaults to CUSTOMER.
func NormalizeAccountRole(raw string) (Role, error) {
	if strings.TrimSpace(raw) == "" {
		return RoleCustomer, nil
	}
	return NormalizeRole(raw)
}
