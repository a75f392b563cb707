package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountString(t *testing.T) {
	a := &Account{
		ID:       "9f2c1a4e-0000-4000-8000-000000000001",
		Email:    "a@b.com",
		FullName: "Testing user",
		IsActive: true,
		Roles:    []string{"admin", "user"},
	}
	assert.Equal(t, "Testing user <a@b.com> id=9f2c1a4e-0000-4000-8000-000000000001 roles=[admin, user] active", a.String())

	a.IsActive = false
	assert.Contains(t, a.String(), "inactive")
}
