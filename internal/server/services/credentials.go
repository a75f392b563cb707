package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
)

// CredentialService handles registration, login and token re-issue.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	logger      logging.Logger
	observer    AuthObserver

	dummyOnce   sync.Once
	dummyDigest string
}

// dummyPassword is hashed once per service to give unknown-email logins a
// digest to verify against.
const dummyPassword = "gatekeeper:no-such-account"

// NewCredentialService constructs a CredentialService. observer may be nil.
func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, h PasswordHasher, t TokenIssuer,
	l logging.Logger, o AuthObserver) *CredentialService {
	return &CredentialService{
		db:          db,
		repomanager: m,
		hasher:      h,
		tokens:      t,
		logger:      l.With("module", "credential_service"),
		observer:    observerOrNop(o),
	}
}

// Register creates an active account with the default role set and returns
// it together with a fresh token.
//
// A unique-constraint conflict yields *common.DuplicateIdentityError carrying
// the store's detail message. Any other store failure is logged and reported
// as common.ErrInternalFailure.
func (s *CredentialService) Register(ctx context.Context, email, password, fullName string) (*Session, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "error hashing password", "error", err.Error())
		s.observer.ObserveAuth(OpRegister, OutcomeInternal)
		return nil, common.ErrInternalFailure
	}

	account := &models.Account{
		Email:        models.NormalizeEmail(email),
		PasswordHash: digest,
		FullName:     fullName,
		IsActive:     true,
		Roles:        models.DefaultRoles(),
	}

	repo := s.repomanager.Users(s.db)

	created, err := repo.Create(ctx, account)
	if err != nil {
		var uv uniqueViolation
		if errors.As(err, &uv) && uv.IsUniqueViolation() {
			s.observer.ObserveAuth(OpRegister, OutcomeDuplicate)
			return nil, &common.DuplicateIdentityError{Detail: uv.Detail()}
		}
		s.logger.Error(ctx, "error creating user", "error", err.Error())
		s.observer.ObserveAuth(OpRegister, OutcomeInternal)
		return nil, common.ErrInternalFailure
	}

	s.logger.Info(ctx, "user registered", "id", created.ID)

	return s.newSession(ctx, OpRegister, created)
}

// Login checks email and password and returns the account with a fresh
// token. The returned *common.InvalidCredentialError names the stage that
// failed. An unknown email still costs one password verification, so both
// stages take the same time.
func (s *CredentialService) Login(ctx context.Context, email, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)

	account, err := repo.GetUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummy(ctx))
			s.observer.ObserveAuth(OpLogin, OutcomeInvalidEmail)
			return nil, &common.InvalidCredentialError{Stage: common.StageEmail}
		}
		s.logger.Error(ctx, "error searching user", "error", err.Error())
		s.observer.ObserveAuth(OpLogin, OutcomeInternal)
		return nil, common.ErrInternalFailure
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.observer.ObserveAuth(OpLogin, OutcomeInvalidPassword)
		return nil, &common.InvalidCredentialError{Stage: common.StagePassword}
	}

	return s.newSession(ctx, OpLogin, account)
}

// CheckStatus re-issues a token for an account that was already resolved
// from a valid token.
func (s *CredentialService) CheckStatus(ctx context.Context, account *models.Account) (*Session, error) {
	if account == nil {
		s.logger.Error(ctx, "check status called without a resolved account")
		s.observer.ObserveAuth(OpCheckStatus, OutcomeInternal)
		return nil, common.ErrInternalFailure
	}
	return s.newSession(ctx, OpCheckStatus, account)
}

// dummy returns a digest of dummyPassword at the hasher's cost, hashing it on
// first use.
func (s *CredentialService) dummy(ctx context.Context) string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Error(ctx, "error hashing dummy password", "error", err.Error())
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

func (s *CredentialService) newSession(ctx context.Context, op string, account *models.Account) (*Session, error) {
	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		s.logger.Error(ctx, "error issuing token", "error", err.Error())
		s.observer.ObserveAuth(op, OutcomeInternal)
		return nil, common.ErrInternalFailure
	}

	s.observer.ObserveAuth(op, OutcomeSuccess)

	return &Session{Account: account.Sanitized(), Token: token}, nil
}
