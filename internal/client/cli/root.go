package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	if a.session == nil || a.session.Account == nil {
		return ""
	}
	return fmt.Sprintf("(%s [%s])", a.session.Account.Email, strings.Join(a.session.Account.Roles, ","))
}

// Root prints the greeting and runs the REPL on the app's input until the
// user exits.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to Gatekeeper CLI (type 'help' for commands)\n")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
