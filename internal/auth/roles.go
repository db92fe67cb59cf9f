// ABOUTME: Static group-code-to-role mapping for application accounts
// ABOUTME: Unknown group codes are a hard failure, never an empty role set

package auth

import (
	"errors"
	"fmt"
)

// Role names derivable from an account's group code.
const (
	RoleUser     = "user"
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// ErrUnknownGroupCode is returned when a group code has no role mapping.
// This must never be masked as "no roles": a role-less but authenticated
// session would slip past every role check downstream.
var ErrUnknownGroupCode = errors.New("unknown group code")

// groupRoles maps an account's group code to its role set. The table is
// fixed at build time; provisioning an account with a code outside it is an
// operator error surfaced at selection time.
var groupRoles = map[string][]string{
	"1": {RoleUser, RoleEmployee},
	"2": {RoleUser, RoleEmployee, RoleManager},
	"3": {RoleUser, RoleAdmin},
}

// unauthenticatedRoles is the role set carried by an externally verified but
// not yet selected identity. Deliberately just RoleUser: enough to reach the
// login page and public assets, nothing more.
var unauthenticatedRoles = []string{RoleUser}

// RolesForGroup returns the role set for a group code. The returned slice is
// a copy; callers may hold it for the session lifetime.
func RolesForGroup(code string) ([]string, error) {
	roles, ok := groupRoles[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroupCode, code)
	}

	out := make([]string, len(roles))
	copy(out, roles)
	return out, nil
}
