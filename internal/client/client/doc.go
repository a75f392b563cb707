// Package client talks to the Gatekeeper gRPC auth service on behalf of the
// CLI.
//
// GRPCClient keeps the access token of the current session in memory and
// attaches it to every outgoing call through a unary interceptor. Server
// status codes are mapped to sentinel errors (ErrUnauthorized, ErrForbidden,
// ErrNotFound, ErrInvalidRequest, ErrUnavailable) that callers match with
// errors.Is; the server's message is kept in the wrapped error text.
package client
