package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Status(ctx context.Context) error
	Token(ctx context.Context) error
	SetRoles(ctx context.Context, args []string) error
	SetActive(ctx context.Context, args []string, active bool) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Gatekeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                   show available commands
//	  - register               create an account
//	  - login                  authenticate
//	  - exit | quit            leave the program
//
//	Logged in:
//	  - help                   show available commands
//	  - status                 re-validate the session and show the account
//	  - token                  print the access token
//	  - roles <id> <role>...   replace an account's roles (admin)
//	  - activate <id>          reactivate an account (admin)
//	  - deactivate <id>        deactivate an account (admin)
//	  - logout                 forget the session
//	  - exit | quit            leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, token, roles, activate, deactivate, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "status":
			_ = a.Status(ctx)

		case "token":
			_ = a.Token(ctx)

		case "roles":
			_ = a.SetRoles(ctx, args)

		case "activate":
			_ = a.SetActive(ctx, args, true)

		case "deactivate":
			_ = a.SetActive(ctx, args, false)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
