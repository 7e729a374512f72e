package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// Ingestion Errors.

	// ErrMalformedExport indicates the export file is not a JSON array at its root
	// or contains invalid JSON. It aborts the whole run.
	ErrMalformedExport = errors.New("malformed export")

	// Record Errors.
	// These are counted against a run but never abort it.

	// ErrUnexpectedType indicates an export element is not a flat object of scalar values.
	ErrUnexpectedType = errors.New("unexpected type")

	// ErrMissingKey indicates a record lacks a permit or revision number.
	ErrMissingKey = errors.New("missing natural key")

	// Store Errors.

	// ErrStoreUnavailable indicates the record store connection was lost.
	// Unlike constraint failures it aborts the run.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// Run Lifecycle Errors.

	// ErrInvalidTransition indicates a sync run status change the state machine does not allow.
	ErrInvalidTransition = errors.New("invalid run status transition")

	// ErrRunFinalized indicates an attempt to modify a completed or failed run.
	ErrRunFinalized = errors.New("sync run already finalized")
)

// IsFatal reports whether err must abort a sync run rather than being
// counted against a single record.
func IsFatal(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrMalformedExport)
}
