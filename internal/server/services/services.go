// Package services contains the server-side business logic: registration
// and login (CredentialService), per-request identity resolution
// (IdentityResolver) and account administration (AccountAdminService).
package services

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Session is the result of a successful register, login or status check.
// Account never carries a password hash.
type Session struct {
	Account *models.Account
	Token   string
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer issues signed access tokens for an account id.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// TokenValidator returns the subject of a valid token.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}

// AuthObserver receives the outcome of every authentication operation.
type AuthObserver interface {
	ObserveAuth(operation, outcome string)
}

// Operation and outcome labels reported to AuthObserver.
const (
	OpRegister    = "register"
	OpLogin       = "login"
	OpCheckStatus = "check_status"
	OpResolve     = "resolve"

	OutcomeSuccess         = "success"
	OutcomeDuplicate       = "duplicate_identity"
	OutcomeInvalidEmail    = "invalid_email"
	OutcomeInvalidPassword = "invalid_password"
	OutcomeUnauthorized    = "unauthorized"
	OutcomeInactive        = "inactive"
	OutcomeInternal        = "internal_failure"
)

// uniqueViolation is implemented by store errors that can tell a unique
// constraint conflict apart from other write failures.
type uniqueViolation interface {
	IsUniqueViolation() bool
	Detail() string
}

type nopObserver struct{}

func (nopObserver) ObserveAuth(string, string) {}

func observerOrNop(o AuthObserver) AuthObserver {
	if o == nil {
		return nopObserver{}
	}
	return o
}
