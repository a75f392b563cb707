package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
)

// AccountAdminService mutates the role set and active flag of accounts.
// Callers are expected to have passed the admin role gate.
type AccountAdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewAccountAdminService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *AccountAdminService {
	return &AccountAdminService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "account_admin_service"),
	}
}

// SetRoles replaces the role set of account id. Roles must be non-empty and
// known; duplicates are dropped keeping first occurrence order.
func (s *AccountAdminService) SetRoles(ctx context.Context, id string, roles []models.Role) (*models.Account, error) {
	roles, err := normalizeRoles(roles)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, func(a *models.Account) {
		a.Roles = roles
	})
}

// SetActive sets the active flag of account id. A deactivated account is
// rejected by IdentityResolver on its next request.
func (s *AccountAdminService) SetActive(ctx context.Context, id string, active bool) (*models.Account, error) {
	return s.mutate(ctx, id, func(a *models.Account) {
		a.IsActive = active
	})
}

// Promote grants the admin role to the account registered under email. It is
// used to bootstrap the first administrator.
func (s *AccountAdminService) Promote(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error searching user", "error", err.Error())
		return nil, common.ErrInternalFailure
	}

	roles := append([]models.Role{models.RoleAdmin}, account.Roles...)
	return s.SetRoles(ctx, account.ID, roles)
}

// mutate applies fn to account id under a row lock, so concurrent role and
// active changes of one account never overwrite each other.
func (s *AccountAdminService) mutate(ctx context.Context, id string, apply func(*models.Account)) (*models.Account, error) {
	updated, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Account, error) {
		repo := s.repomanager.Users(tx)

		account, err := repo.LockUserByID(ctx, id)
		if err != nil {
			return nil, err
		}

		apply(account)

		return repo.Update(ctx, account)
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error updating user", "id", id, "error", err.Error())
		return nil, common.ErrInternalFailure
	}

	s.logger.Info(ctx, "user updated", "id", id, "roles", models.RolesToStrings(updated.Roles), "active", updated.IsActive)

	return updated.Sanitized(), nil
}

func normalizeRoles(roles []models.Role) ([]models.Role, error) {
	if len(roles) == 0 {
		return nil, &common.ValidationError{Messages: []string{"roles must contain at least 1 elements"}}
	}

	seen := make(map[models.Role]struct{}, len(roles))
	out := make([]models.Role, 0, len(roles))

	for _, r := range roles {
		if !models.ValidRole(r) {
			valid := models.RolesToStrings([]models.Role{models.RoleAdmin, models.RoleSuperUser, models.RoleUser})
			return nil, &common.ValidationError{Messages: []string{
				"each value in roles must be one of the following values: " + strings.Join(valid, ", "),
			}}
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}

	return out, nil
}
