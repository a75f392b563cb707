package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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
	registerFn func(email, password, fullName string) (*services.Session, error)
	loginFn    func(email, password string) (*services.Session, error)
	checked    *models.Account
}

func (f *fakeCredentials) Register(_ context.Context, email, password, fullName string) (*services.Session, error) {
	return f.registerFn(email, password, fullName)
}

func (f *fakeCredentials) Login(_ context.Context, email, password string) (*services.Session, error) {
	return f.loginFn(email, password)
}

func (f *fakeCredentials) CheckStatus(_ context.Context, a *models.Account) (*services.Session, error) {
	f.checked = a
	return &services.Session{Account: a, Token: "renewed"}, nil
}

// fakeResolver maps tokens onto accounts the way IdentityResolver does.
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
	err       error
}

func (f *fakeAdmin) SetRoles(_ context.Context, id string, roles []models.Role) (*models.Account, error) {
	f.gotID, f.gotRoles = id, roles
	if f.err != nil {
		return nil, f.err
	}
	return &models.Account{ID: id, Roles: roles, IsActive: true}, nil
}

func (f *fakeAdmin) SetActive(_ context.Context, id string, active bool) (*models.Account, error) {
	f.gotID, f.gotActive = id, &active
	if f.err != nil {
		return nil, f.err
	}
	return &models.Account{ID: id, IsActive: active, Roles: models.DefaultRoles()}, nil
}

func newTestServer(cs *fakeCredentials, aa *fakeAdmin, opts ...Option) http.Handler {
	if cs == nil {
		cs = &fakeCredentials{}
	}
	if aa == nil {
		aa = &fakeAdmin{}
	}
	ir := fakeResolver{"user-token": testUser, "admin-token": testAdmin}
	return NewHTTPServer(":0", nopLogger{}, cs, ir, aa, opts...).Router()
}

func do(t *testing.T, h http.Handler, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func strs(ss ...string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func newRequestWithAuth(header string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}
