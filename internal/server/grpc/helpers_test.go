package grpc

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

const (
	userID  = "3f0e1a52-8a3c-4f53-9d0e-6b1b2f6c1a01"
	adminID = "9b2d7c44-1e5f-4a8b-b3c2-0d4e5f6a7b02"
)

var (
	testUser = &models.Account{
		ID:       userID,
		Email:    "testing.user@google.com",
		FullName: "Testing user",
		IsActive: true,
		Roles:    []models.Role{models.RoleUser},
	}
	testAdmin = &models.Account{
		ID:       adminID,
		Email:    "testing.admin@google.com",
		FullName: "Testing admin",
		IsActive: true,
		Roles:    []models.Role{models.RoleAdmin},
	}
)

type fakeCredentials struct {
	err error
}

func (f *fakeCredentials) Register(_ context.Context, email, _, fullName string) (*services.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.Session{
		Account: &models.Account{ID: userID, Email: email, FullName: fullName, IsActive: true, Roles: models.DefaultRoles()},
		Token:   "registered",
	}, nil
}

func (f *fakeCredentials) Login(_ context.Context, email, _ string) (*services.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.Session{Account: testUser, Token: "logged-in"}, nil
}

func (f *fakeCredentials) CheckStatus(_ context.Context, a *models.Account) (*services.Session, error) {
	if a == nil {
		return nil, common.ErrInternalFailure
	}
	return &services.Session{Account: a, Token: "renewed"}, nil
}

type fakeResolver map[string]*models.Account

func (f fakeResolver) Resolve(_ context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, &common.UnauthorizedError{Reason: services.ReasonMissingToken}
	}
	a, ok := f[token]
	if !ok {
		return nil, &common.UnauthorizedError{Reason: services.ReasonTokenInvalid}
	}
	return a, nil
}

type fakeAdmin struct {
	gotID     string
	gotRoles  []models.Role
	gotActive *bool
}

func (f *fakeAdmin) SetRoles(_ context.Context, id string, roles []models.Role) (*models.Account, error) {
	f.gotID, f.gotRoles = id, roles
	return &models.Account{ID: id, Roles: roles, IsActive: true}, nil
}

func (f *fakeAdmin) SetActive(_ context.Context, id string, active bool) (*models.Account, error) {
	f.gotID, f.gotActive = id, &active
	return &models.Account{ID: id, Roles: models.DefaultRoles(), IsActive: active}, nil
}

func newTestServer(cs *fakeCredentials, aa *fakeAdmin) *GRPCServer {
	if cs == nil {
		cs = &fakeCredentials{}
	}
	if aa == nil {
		aa = &fakeAdmin{}
	}
	ir := fakeResolver{"user-token": testUser, "admin-token": testAdmin}
	return NewGRPCServer("127.0.0.1:0", nopLogger{}, cs, ir, aa, nil)
}
