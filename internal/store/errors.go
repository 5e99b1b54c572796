package store

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a user with the same email address
	// already exists.
	ErrDuplicateEmail = errors.New("email address already registered")

	// ErrForeignKeyViolation is returned when a row references a user that
	// does not exist.
	ErrForeignKeyViolation = errors.New("referenced record does not exist")

	// ErrInvalidInput is returned when a value violates a column constraint,
	// such as a negative nightly price.
	ErrInvalidInput = errors.New("invalid input")
)

// pqErrorCode returns the SQLSTATE of a PostgreSQL error, or "" when err did
// not come from the server.
func pqErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
