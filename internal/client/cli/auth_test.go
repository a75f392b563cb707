package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/gatekeeper/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	f := &fakeClient{sess: testSession("T1")}
	a, out := newTestApp(f, "")

	pw := []byte("Abc123")
	stubInputs(t, []string{"a@b.com", "Testing user"}, pw)

	require.NoError(t, a.Register(context.Background()))

	assert.Equal(t, "a@b.com", f.regEmail)
	assert.Equal(t, "Testing user", f.regFullName)
	assert.Equal(t, []byte("Abc123"), f.regPass)
	assert.Equal(t, make([]byte, 6), pw, "password must be wiped")
	assert.True(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Registered as a@b.com")
}

func TestRegister_ServerError(t *testing.T) {
	f := &fakeClient{regErr: fmt.Errorf("%w: %s", client.ErrInvalidRequest, "Key (email)=(a@b.com) already exists.")}
	a, out := newTestApp(f, "")
	stubInputs(t, []string{"a@b.com", "Testing user"}, []byte("Abc123"))

	err := a.Register(context.Background())
	require.ErrorIs(t, err, client.ErrInvalidRequest)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "already exists")
}

func TestRegister_InputError(t *testing.T) {
	f := &fakeClient{}
	a, _ := newTestApp(f, "")
	stubInputs(t, []string{"a@b.com"}, []byte("x"))

	require.Error(t, a.Register(context.Background()))
	assert.Empty(t, f.regEmail)
}

func TestLogin_Success(t *testing.T) {
	f := &fakeClient{sess: testSession("T1")}
	a, out := newTestApp(f, "")
	stubInputs(t, []string{"A@B.com"}, []byte("Abc123"))

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "A@B.com", f.loginEmail)
	assert.True(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Hello, Testing user")
}

func TestLogin_FailureKeepsPreviousSession(t *testing.T) {
	prev := testSession("OLD")
	f := &fakeClient{loginErr: fmt.Errorf("%w: %s", client.ErrUnauthorized, "Credentials are not valid (password)")}
	a, out := newTestApp(f, "")
	a.session = prev
	stubInputs(t, []string{"a@b.com"}, []byte("wrong1A"))

	require.Error(t, a.Login(context.Background()))
	assert.Same(t, prev, a.session)
	assert.Contains(t, out.String(), "Credentials are not valid (password)")
}

func TestStatus(t *testing.T) {
	t.Run("not logged in", func(t *testing.T) {
		a, out := newTestApp(&fakeClient{}, "")
		require.Error(t, a.Status(context.Background()))
		assert.Contains(t, out.String(), "Not logged in")
	})

	t.Run("rotates session", func(t *testing.T) {
		f := &fakeClient{statusSess: testSession("T2")}
		a, out := newTestApp(f, "")
		a.session = testSession("T1")

		require.NoError(t, a.Status(context.Background()))
		assert.Equal(t, "T2", a.session.Token)
		assert.Contains(t, out.String(), "Testing user <a@b.com>")
	})

	t.Run("unauthorized drops session", func(t *testing.T) {
		f := &fakeClient{statusErr: fmt.Errorf("%w: %s", client.ErrUnauthorized, "User is inactive")}
		a, _ := newTestApp(f, "")
		a.session = testSession("T1")

		require.Error(t, a.Status(context.Background()))
		assert.False(t, a.isLoggedIn())
		assert.True(t, f.loggedOut)
	})

	t.Run("transport error keeps session", func(t *testing.T) {
		f := &fakeClient{statusErr: client.ErrUnavailable}
		a, _ := newTestApp(f, "")
		a.session = testSession("T1")

		require.True(t, errors.Is(a.Status(context.Background()), client.ErrUnavailable))
		assert.True(t, a.isLoggedIn())
	})
}

func TestToken(t *testing.T) {
	a, out := newTestApp(&fakeClient{}, "")
	require.Error(t, a.Token(context.Background()))

	out.Reset()
	a.session = testSession("T1")
	require.NoError(t, a.Token(context.Background()))
	assert.Equal(t, "T1\n", out.String())
}

func TestLogout(t *testing.T) {
	f := &fakeClient{}
	a, _ := newTestApp(f, "")
	a.session = testSession("T1")

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.True(t, f.loggedOut)
}

func TestRegister_PasswordMismatchSkipsServer(t *testing.T) {
	f := &fakeClient{sess: testSession("T1")}
	a, out := newTestApp(f, "A@B.com\nTesting user\n")
	stubTerminal(t, "Abc123", "Abc12")

	err := a.Register(context.Background())
	require.ErrorIs(t, err, errPasswordMismatch)
	assert.Empty(t, f.regEmail)
	assert.Contains(t, out.String(), "Email: Full name: Password: ")
}

func TestLogin_PromptsAndNormalizesEmail(t *testing.T) {
	f := &fakeClient{sess: testSession("T1")}
	a, _ := newTestApp(f, " A@B.com \n")
	stubTerminal(t, "Abc123")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "a@b.com", f.loginEmail)
	assert.Equal(t, []byte("Abc123"), f.loginPass)
}
