// Package models holds the server-side domain types.
package models

import (
	"strings"
	"time"
)

// Role is a tag granting access to role-gated operations.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSuperUser Role = "super-user"
	RoleUser      Role = "user"
)

// DefaultRoles is the role set given to every newly registered account.
func DefaultRoles() []Role {
	return []Role{RoleUser}
}

// ValidRole reports whether r is one of the known role tags.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleSuperUser, RoleUser:
		return true
	}
	return false
}

// Account is a registered identity.
//
// PasswordHash is only ever populated on values loaded from the store. Every
// value leaving the service layer goes through Sanitized first.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	IsActive     bool      `json:"isActive"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"-"`
}

// Sanitized returns a copy of the account without the password hash.
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.PasswordHash = ""
	c.Roles = append([]Role(nil), a.Roles...)
	return &c
}

// HasAnyRole reports whether the account holds at least one of roles.
func (a *Account) HasAnyRole(roles []Role) bool {
	for _, have := range a.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// NormalizeEmail trims and lower-cases an email before it is compared or
// stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RolesToStrings converts roles to their string form, keeping order.
func RolesToStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// RolesFromStrings converts a string slice to roles, keeping order.
func RolesFromStrings(ss []string) []Role {
	out := make([]Role, len(ss))
	for i, s := range ss {
		out[i] = Role(s)
	}
	return out
}
