// Package common defines the error taxonomy and shared constants used by the
// Gatekeeper server, its transports and the CLI client. Callers should use
// errors.Is and errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrInternalFailure is returned for any failure whose detail must stay
	// in the server logs.
	ErrInternalFailure = errors.New("Please check server logs")
)

// Stage names the login step that rejected a credential.
type Stage string

const (
	StageEmail    Stage = "email"
	StagePassword Stage = "password"
)

// DuplicateIdentityError carries the store's own conflict detail verbatim.
type DuplicateIdentityError struct {
	Detail string
}

func (e *DuplicateIdentityError) Error() string {
	return e.Detail
}

// InvalidCredentialError reports which login stage failed.
type InvalidCredentialError struct {
	Stage Stage
}

func (e *InvalidCredentialError) Error() string {
	return fmt.Sprintf("Credentials are not valid (%s)", e.Stage)
}

// UnauthorizedError is returned when a bearer token cannot be resolved to an
// active account.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	return e.Reason
}

func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrorUnauthorized
}

// ForbiddenError is returned when a resolved account lacks a declared role.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// BadRequestError is a client error that is neither a validation failure nor
// a credential problem.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string {
	return e.Reason
}

// ValidationError lists every rejected field of a request, one message each.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation error"
	}
	return e.Messages[0]
}
