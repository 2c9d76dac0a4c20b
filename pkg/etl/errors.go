package etl

import "errors"

var (
	// ErrQuarantineNotFound is returned when a retry targets an id that
	// either never existed in this tenant's schema or belongs to another
	// tenant's schema entirely (the latter is unreachable in practice:
	// search_path scoping means the row is simply invisible, not merely
	// filtered out).
	ErrQuarantineNotFound = errors.New("etl: quarantine record not found")

	// ErrQuarantineNotPending is returned when a retry or discard targets
	// a record that has already been resolved or deleted.
	ErrQuarantineNotPending = errors.New("etl: quarantine record is not pending")
)
