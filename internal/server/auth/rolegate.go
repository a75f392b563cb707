package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Reason explains a Deny decision.
type Reason string

const (
	ReasonIdentityMissing  Reason = "identity missing"
	ReasonInsufficientRole Reason = "insufficient role"
)

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

// Err converts a Deny decision into the matching error. It returns nil for
// Allow.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonIdentityMissing {
		return &common.BadRequestError{Reason: d.Message}
	}
	return &common.ForbiddenError{Reason: d.Message}
}

// Authorize decides whether account may perform an operation that declares
// the given roles. An operation with no declared roles is open to anyone,
// including a nil account. Otherwise the account must be present and hold at
// least one declared role.
//
// A nil account with declared roles means the caller skipped identity
// resolution, which is reported as ReasonIdentityMissing rather than a role
// mismatch.
func Authorize(declared []models.Role, account *models.Account) Decision {
	if len(declared) == 0 {
		return Decision{Allowed: true}
	}

	if account == nil {
		return Decision{Reason: ReasonIdentityMissing, Message: "User not found"}
	}

	if account.HasAnyRole(declared) {
		return Decision{Allowed: true}
	}

	msg := fmt.Sprintf("User %s need a valid role: [%s]",
		account.FullName, strings.Join(models.RolesToStrings(declared), ","))

	return Decision{Reason: ReasonInsufficientRole, Message: msg}
}
