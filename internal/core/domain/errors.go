package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist or is not
	// accessible. During collection a not-found repository listing skips
	// that user rather than aborting the run.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrAuthRequired indicates no API credential is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the configured credential was rejected.
	// Fatal: the whole collection aborts.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Directory Errors.

	// ErrRateLimited indicates the directory throttled our requests.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransientNetwork indicates a connectivity failure or request
	// timeout. Safe to retry.
	ErrTransientNetwork = errors.New("transient network failure")
)
