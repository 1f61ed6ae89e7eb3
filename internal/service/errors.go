package service

import (
	"errors"
	"fmt"
)

var (
	// ErrRouteNotFound means no route with the given id exists in either store
	ErrRouteNotFound = errors.New("route not found")

	// ErrForbidden means the route exists but belongs to another user
	ErrForbidden = errors.New("route belongs to another user")

	// ErrInvalidTransition means the requested status change is not allowed
	// from the route's current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotDraft means a structural operation was attempted on a route that
	// already left DRAFT
	ErrNotDraft = errors.New("route is no longer a draft")
)

// InvariantViolation indicates the at-most-one-MAIN-per-user invariant did not
// hold after a status change. It marks an ordering bug in the status machine
// and is never surfaced to a caller as-is; the enclosing transaction rolls
// back when it is returned.
type InvariantViolation struct {
	UserID string
	Count  int
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("main-route invariant violated for user %s: %d MAIN routes after promotion", e.UserID, e.Count)
}

// MigrationFailed means a draft could not be reshaped into the confirmed
// store. The draft record is not cross-referenced until migration commits, so
// the operation is safely retryable.
type MigrationFailed struct {
	RouteID string
	Err     error
}

func (e *MigrationFailed) Error() string {
	return fmt.Sprintf("migration failed for route %s: %v", e.RouteID, e.Err)
}

func (e *MigrationFailed) Unwrap() error { return e.Err }
