package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/users"
)

// ---- logger ----

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeStoreError struct {
	unique bool
	detail string
}

func (e *fakeStoreError) Error() string           { return "db error: " + e.detail }
func (e *fakeStoreError) IsUniqueViolation() bool { return e.unique }
func (e *fakeStoreError) Detail() string          { return e.detail }

// fakeUsersRepo is an in-memory account store enforcing unique emails.
type fakeUsersRepo struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	nextID   int

	createErr error
	getErr    error
	updateErr error

	locked []string
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{accounts: map[string]models.Account{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.accounts {
		if existing.Email == a.Email {
			return nil, &fakeStoreError{unique: true, detail: fmt.Sprintf("Key (email)=(%s) already exists.", a.Email)}
		}
	}
	f.nextID++
	a.ID = fmt.Sprintf("id-%d", f.nextID)
	f.accounts[a.ID] = *a
	return a, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.accounts {
		if a.Email == email {
			c := a
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (f *fakeUsersRepo) LockUserByID(ctx context.Context, id string) (*models.Account, error) {
	f.mu.Lock()
	f.locked = append(f.locked, id)
	f.mu.Unlock()

	return f.GetUserByID(ctx, id)
}

func (f *fakeUsersRepo) lockedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.locked...)
}

func (f *fakeUsersRepo) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.accounts[a.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	f.accounts[a.ID] = *a
	return a, nil
}

func (f *fakeUsersRepo) setActive(id string, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.accounts[id]
	a.IsActive = active
	f.accounts[id] = a
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingObserver) ObserveAuth(op, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, op+"/"+outcome)
}

func (r *recordingObserver) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return ""
	}
	return r.events[len(r.events)-1]
}

type fakeHasher struct {
	hashErr error
}

func (f fakeHasher) Hash(p string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + p, nil
}

func (f fakeHasher) Verify(p, d string) bool { return d == "hashed:"+p }

type fakeIssuer struct {
	err error
}

func (f fakeIssuer) Issue(subject string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + subject, nil
}

// ---- helpers ----

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}
