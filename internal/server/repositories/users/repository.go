// Package users provides the account store used by the credential and
// identity services.
package users

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Repository is the account store. Lookups return common.ErrorNotFound when
// no account matches. Write failures are returned as *StoreError.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetUserByEmail(ctx context.Context, email string) (*models.Account, error)
	GetUserByID(ctx context.Context, id string) (*models.Account, error)
	// LockUserByID loads an account and locks its row until the surrounding
	// transaction ends. It must be called on a transaction.
	LockUserByID(ctx context.Context, id string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
}
