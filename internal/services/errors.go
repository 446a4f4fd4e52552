package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrPaperNotFound is returned when no paper has the requested id.
var ErrPaperNotFound = errors.New("paper not found")

// StoreError reports a failure of the persistence layer.
type StoreError struct {
	Op   string
	Code string // SQLSTATE, when the driver reports one
	Err  error
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store %s failed (SQLSTATE %s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// storeError wraps err unless it is already a domain outcome.
func storeError(op string, err error) error {
	if err == nil || errors.Is(err, ErrPaperNotFound) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}

	wrapped := &StoreError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		wrapped.Code = pgErr.Code
	}
	return wrapped
}

// ImportNotFoundError means the external id resolved to no work.
type ImportNotFoundError struct {
	ExternalID string
}

func (e *ImportNotFoundError) Error() string {
	return fmt.Sprintf("paper %q not found in OpenAlex", e.ExternalID)
}

// ImportUpstreamError means OpenAlex was reached but the import could not use
// its answer. Err keeps the original failure.
type ImportUpstreamError struct {
	ExternalID string
	Err        error
}

func (e *ImportUpstreamError) Error() string {
	return fmt.Sprintf("importing %q: %v", e.ExternalID, e.Err)
}

func (e *ImportUpstreamError) Unwrap() error {
	return e.Err
}
