// Package models defines client-side views of server responses.
package models

import (
	"fmt"
	"strings"
)

// Account is the public view of a user account as returned by the server.
type Account struct {
	ID       string
	Email    string
	FullName string
	IsActive bool
	Roles    []string
}

// String renders the account on a single line for terminal output.
func (a *Account) String() string {
	state := "active"
	if !a.IsActive {
		state = "inactive"
	}
	return fmt.Sprintf("%s <%s> id=%s roles=[%s] %s", a.FullName, a.Email, a.ID, strings.Join(a.Roles, ", "), state)
}

// Session pairs an account with the access token issued for it.
type Session struct {
	Account *Account
	Token   string
}
