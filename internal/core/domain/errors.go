package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// Adapters wrap these with %w so callers can classify with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Pipeline Errors.

	// ErrTransport indicates a remote fetch did not complete successfully.
	// Always fatal.
	ErrTransport = errors.New("transport error")

	// ErrFormat indicates a document does not match the expected shape.
	// Fatal for the crosswalk, skip-and-count for a single result document.
	ErrFormat = errors.New("format error")

	// ErrCorpusUnavailable indicates the raw result corpus cannot be listed.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrWrite indicates the summary artifact could not be persisted.
	ErrWrite = errors.New("write error")

	// ErrVerification indicates the computed totals disagree with the
	// configured expected totals. Only fatal in strict mode.
	ErrVerification = errors.New("verification failed")

	// ErrNotConfigured indicates a required setting has no value.
	ErrNotConfigured = errors.New("not configured")
)

// DocumentError reports a per-document extraction failure.
type DocumentError struct {
	ExternalID string
	Err        error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.ExternalID, e.Err)
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Err
}
