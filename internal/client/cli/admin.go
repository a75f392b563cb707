package cli

import (
	"context"
	"errors"
)

var errUsage = errors.New("usage")

// SetRoles replaces the roles of another account: roles <id> <role>...
func (a *App) SetRoles(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.printf("Usage: roles <id> <role> [role...]\n")
		return errUsage
	}

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	account, err := a.api.SetRoles(ctx, args[0], args[1:])
	if err != nil {
		a.printf("Updating roles unsuccessful: %s\n", err.Error())
		return err
	}

	a.printf("%s\n", account.String())
	return nil
}

// SetActive activates or deactivates another account: activate <id> or
// deactivate <id>.
func (a *App) SetActive(ctx context.Context, args []string, active bool) error {
	if len(args) != 1 {
		if active {
			a.printf("Usage: activate <id>\n")
		} else {
			a.printf("Usage: deactivate <id>\n")
		}
		return errUsage
	}

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	account, err := a.api.SetActive(ctx, args[0], active)
	if err != nil {
		a.printf("Updating account unsuccessful: %s\n", err.Error())
		return err
	}

	a.printf("%s\n", account.String())
	return nil
}
