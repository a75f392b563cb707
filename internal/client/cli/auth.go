package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gatekeeper/internal/client/client"
	"github.com/dmitrijs2005/gatekeeper/internal/common"
)

// Interactive prompts, swapped out in tests.
var (
	askEmail       = AskEmail
	askText        = AskText
	askPassword    = AskPassword
	askNewPassword = AskNewPassword
)

var errNotLoggedIn = errors.New("not logged in")

// Register prompts for an email, a full name and a confirmed password and
// creates a new account. On success the returned session becomes the current one.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := askEmail(a.reader, a.out)
	if err != nil {
		return err
	}

	fullName, err := askText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}

	password, err := askNewPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	sess, err := a.api.Register(ctx, email, password, fullName)
	if err != nil {
		a.printf("Registration unsuccessful: %s\n", err.Error())
		return err
	}

	a.session = sess
	a.printf("Registered as %s\n", sess.Account.Email)
	return nil
}

// Login prompts for credentials and authenticates. On success the returned
// session becomes the current one; on failure any previous session is kept.
//
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := askEmail(a.reader, a.out)
	if err != nil {
		return err
	}

	password, err := askPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	sess, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.printf("Login unsuccessful: %s\n", err.Error())
		return err
	}

	a.session = sess
	a.printf("Login successful. Hello, %s\n", sess.Account.FullName)
	return nil
}

// Status asks the server to re-validate the current token, prints the
// account and keeps the freshly issued token. An unauthorized reply ends the
// local session.
func (a *App) Status(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Not logged in\n")
		return errNotLoggedIn
	}

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	sess, err := a.api.CheckStatus(ctx)
	if err != nil {
		a.printf("Status check unsuccessful: %s\n", err.Error())
		if errors.Is(err, client.ErrUnauthorized) {
			a.dropSession()
		}
		return err
	}

	a.session = sess
	a.printf("%s\n", sess.Account.String())
	return nil
}

// Token prints the access token of the current session, e.g. for use with
// the HTTP API.
func (a *App) Token(context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Not logged in\n")
		return errNotLoggedIn
	}
	a.printf("%s\n", a.session.Token)
	return nil
}

// Logout forgets the current session.
func (a *App) Logout(context.Context) error {
	a.dropSession()
	a.printf("Logged out\n")
	return nil
}

func (a *App) dropSession() {
	a.api.Logout()
	a.session = nil
}
