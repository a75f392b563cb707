package httpapi

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

type ctxKey string

const accountKey ctxKey = "account"

func withAccount(ctx context.Context, a *models.Account) context.Context {
	return context.WithValue(ctx, accountKey, a)
}

// AccountFromContext returns the account attached by the bearer middleware,
// or nil on routes that do not require authentication.
func AccountFromContext(ctx context.Context) *models.Account {
	a, _ := ctx.Value(accountKey).(*models.Account)
	return a
}
