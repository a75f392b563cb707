package client

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/client/models"
)

// Client is the transport-agnostic API contract used by the CLI.
type Client interface {
	Register(ctx context.Context, email string, password []byte, fullName string) (*models.Session, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	CheckStatus(ctx context.Context) (*models.Session, error)
	SetRoles(ctx context.Context, id string, roles []string) (*models.Account, error)
	SetActive(ctx context.Context, id string, active bool) (*models.Account, error)
	Logout()
	Close() error
}
