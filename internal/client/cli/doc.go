// Package cli provides the interactive Gatekeeper command-line client.
//
// It wires configuration, the gRPC API client and an interactive REPL.
// Typical flow: register or log in, inspect the session with "status", and,
// for administrators, manage other accounts' roles and activation.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
