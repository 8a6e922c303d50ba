package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication errors.

	// ErrAuthRequired indicates no credentials are configured.
	// The operator must run the login flow; there is no retry.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the stored authentication has expired
	// and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// Per-file ingestion errors. These are recorded in the ingest
	// report and never abort the folder.

	// ErrRepresentationNotReady indicates the provider has not finished
	// generating the text representation for a file.
	ErrRepresentationNotReady = errors.New("text representation not ready")

	// ErrDownloadFailed indicates a transport failure retrieving file
	// content or its text representation.
	ErrDownloadFailed = errors.New("download failed")

	// ErrNoTextContent indicates the provider has no text representation
	// for a file. Treated as a skip, not a failure.
	ErrNoTextContent = errors.New("no text representation available")

	// Retrieval errors.

	// ErrNoResults indicates a similarity query returned no hits.
	// Answering degrades to an empty context rather than failing.
	ErrNoResults = errors.New("no results")

	// ErrCompletionFailed indicates the completion service rejected the
	// request. Surfaced to the caller; never retried here.
	ErrCompletionFailed = errors.New("completion failed")
)

// UpsertError reports a rejected upsert batch. Remaining batches of the
// same file are abandoned; the error surfaces through the ingest report.
type UpsertError struct {
	// Batch is the zero-based index of the rejected batch.
	Batch int

	// Err is the underlying index service error.
	Err error
}

// Error implements the error interface.
func (e *UpsertError) Error() string {
	return fmt.Sprintf("upsert batch %d: %v", e.Batch, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *UpsertError) Unwrap() error {
	return e.Err
}
