package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no active row matches the requested key.
// It is a distinguishable result, not an exceptional condition.
var ErrNotFound = errors.New("not found")

// StorageErrorKind classifies storage failures for callers that need to decide
// on retries without parsing driver error strings.
type StorageErrorKind string

const (
	// KindConflict marks constraint violations. Never retried: a concurrent
	// write already satisfied the intent.
	KindConflict StorageErrorKind = "conflict"
	// KindConnection marks transient connection-level failures eligible for a
	// bounded retry with backoff.
	KindConnection StorageErrorKind = "connection"
	// KindInternal marks everything else.
	KindInternal StorageErrorKind = "internal"
)

// StorageError wraps a driver error with a machine-readable kind while keeping
// the detail opaque to HTTP callers.
type StorageError struct {
	Kind StorageErrorKind
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient.
func (e *StorageError) Retryable() bool { return e.Kind == KindConnection }
