package domain

import (
	"context"
	"errors"
)

// Common domain errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknownDriver = errors.New("unknown catalog driver")

	// ErrQueryTimeout is returned when the catalog query exceeds its deadline.
	ErrQueryTimeout = errors.New("catalog query timed out")
)

// DataAccessError reports that the catalog query could not be executed:
// connectivity, permissions, timeout or a malformed query.
// It is never retried and is not recoverable locally.
type DataAccessError struct {
	Op  string
	Err error
}

// Error returns the error message
func (e *DataAccessError) Error() string {
	msg := "data access error"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// NewDataAccessError wraps err as a DataAccessError for the given operation.
// A deadline expiry is tagged with ErrQueryTimeout while still matching
// context.DeadlineExceeded.
func NewDataAccessError(op string, err error) *DataAccessError {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrQueryTimeout) {
		err = errors.Join(ErrQueryTimeout, err)
	}
	return &DataAccessError{Op: op, Err: err}
}

// IsDataAccessError returns true if err is or wraps a DataAccessError
func IsDataAccessError(err error) bool {
	var de *DataAccessError
	return errors.As(err, &de)
}
