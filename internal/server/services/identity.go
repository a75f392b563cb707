package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
)

// Reasons attached to *common.UnauthorizedError by Resolve.
const (
	ReasonMissingToken = "missing token"
	ReasonTokenInvalid = "Token not valid"
	ReasonInactive     = "User is inactive, talk with an admin"
)

// IdentityResolver turns a bearer token into the current account.
type IdentityResolver struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenValidator
	logger      logging.Logger
	observer    AuthObserver
}

// NewIdentityResolver constructs an IdentityResolver. observer may be nil.
func NewIdentityResolver(db *sql.DB, m repomanager.RepositoryManager, t TokenValidator,
	l logging.Logger, o AuthObserver) *IdentityResolver {
	return &IdentityResolver{
		db:          db,
		repomanager: m,
		tokens:      t,
		logger:      l.With("module", "identity_resolver"),
		observer:    observerOrNop(o),
	}
}

// Resolve validates token and loads its subject from the store. The account
// is read on every call so deactivation takes effect on the next request,
// even for unexpired tokens.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		r.observer.ObserveAuth(OpResolve, OutcomeUnauthorized)
		return nil, &common.UnauthorizedError{Reason: ReasonMissingToken}
	}

	subject, err := r.tokens.Validate(ctx, token)
	if err != nil {
		r.observer.ObserveAuth(OpResolve, OutcomeUnauthorized)
		return nil, &common.UnauthorizedError{Reason: ReasonTokenInvalid}
	}

	repo := r.repomanager.Users(r.db)

	account, err := repo.GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			r.observer.ObserveAuth(OpResolve, OutcomeUnauthorized)
			return nil, &common.UnauthorizedError{Reason: ReasonTokenInvalid}
		}
		r.logger.Error(ctx, "error loading user", "id", subject, "error", err.Error())
		r.observer.ObserveAuth(OpResolve, OutcomeInternal)
		return nil, common.ErrInternalFailure
	}

	if !account.IsActive {
		r.observer.ObserveAuth(OpResolve, OutcomeInactive)
		return nil, &common.UnauthorizedError{Reason: ReasonInactive}
	}

	r.observer.ObserveAuth(OpResolve, OutcomeSuccess)

	return account.Sanitized(), nil
}
