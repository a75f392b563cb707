package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gatekeeper/internal/client/models"
)

type fakeClient struct {
	// captured inputs
	regEmail, regFullName string
	regPass               []byte
	loginEmail            string
	loginPass             []byte
	rolesID               string
	roles                 []string
	activeID              string
	active                bool
	loggedOut             bool
	closed                bool

	// preset outputs
	sess       *models.Session
	account    *models.Account
	regErr     error
	loginErr   error
	statusErr  error
	rolesErr   error
	activeErr  error
	statusSess *models.Session
}

func (f *fakeClient) Register(_ context.Context, email string, password []byte, fullName string) (*models.Session, error) {
	f.regEmail, f.regFullName, f.regPass = email, fullName, append([]byte(nil), password...)
	if f.regErr != nil {
		return nil, f.regErr
	}
	return f.sess, nil
}

func (f *fakeClient) Login(_ context.Context, email string, password []byte) (*models.Session, error) {
	f.loginEmail, f.loginPass = email, append([]byte(nil), password...)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.sess, nil
}

func (f *fakeClient) CheckStatus(context.Context) (*models.Session, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.statusSess, nil
}

func (f *fakeClient) SetRoles(_ context.Context, id string, roles []string) (*models.Account, error) {
	f.rolesID, f.roles = id, roles
	if f.rolesErr != nil {
		return nil, f.rolesErr
	}
	return f.account, nil
}

func (f *fakeClient) SetActive(_ context.Context, id string, active bool) (*models.Account, error) {
	f.activeID, f.active = id, active
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.account, nil
}

func (f *fakeClient) Logout()      { f.loggedOut = true }
func (f *fakeClient) Close() error { f.closed = true; return nil }

func testSession(token string) *models.Session {
	return &models.Session{
		Account: &models.Account{
			ID:       "9f2c1a4e-0000-4000-8000-000000000001",
			Email:    "a@b.com",
			FullName: "Testing user",
			IsActive: true,
			Roles:    []string{"user"},
		},
		Token: token,
	}
}

func newTestApp(f *fakeClient, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{api: f, reader: bufio.NewReader(strings.NewReader(input)), out: &out}, &out
}

// stubInputs replaces the interactive prompts: the email and text prompts
// return the next answer in order, both password prompts return password.
func stubInputs(t *testing.T, answers []string, password []byte) {
	t.Helper()
	origEmail, origText, origPW, origNewPW := askEmail, askText, askPassword, askNewPassword
	i := 0
	next := func() (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		i++
		return answers[i-1], nil
	}
	askEmail = func(*bufio.Reader, io.Writer) (string, error) { return next() }
	askText = func(*bufio.Reader, string, io.Writer) (string, error) { return next() }
	askPassword = func(io.Writer, string) ([]byte, error) { return password, nil }
	askNewPassword = func(io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		askEmail, askText, askPassword, askNewPassword = origEmail, origText, origPW, origNewPW
	})
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}
