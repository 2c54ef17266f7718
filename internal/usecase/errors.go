package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrSyncInProgress        = errors.New("sync already in progress")
	// ErrSystemicFailure means the provider failed every page before any record arrived.
	ErrSystemicFailure = errors.New("systemic sync failure")
)
