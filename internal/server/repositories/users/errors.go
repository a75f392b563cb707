package users

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolationCode = "23505"

// StoreError wraps a failed write. Callers inspect it through
// IsUniqueViolation and Detail instead of the driver error.
type StoreError struct {
	err    error
	unique bool
	detail string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("db error: %v", e.err)
}

func (e *StoreError) Unwrap() error {
	return e.err
}

// IsUniqueViolation reports whether the write hit a unique constraint.
func (e *StoreError) IsUniqueViolation() bool {
	return e.unique
}

// Detail returns the human-readable detail the store attached to the error,
// e.g. "Key (email)=(a@b.com) already exists.".
func (e *StoreError) Detail() string {
	return e.detail
}

func newStoreError(err error) *StoreError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{
			err:    err,
			unique: pgErr.Code == uniqueViolationCode,
			detail: pgErr.Detail,
		}
	}
	return &StoreError{err: err}
}
