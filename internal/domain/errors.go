package domain

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map these to HTTP status codes; every specific
// error below wraps exactly one of them so callers can match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

// Lifecycle conflicts.
var (
	ErrEventNotPending   = fmt.Errorf("%w: event is no longer pending", ErrConflict)
	ErrEventNotPublished = fmt.Errorf("%w: event is not published", ErrConflict)
	ErrEventTooSoon      = fmt.Errorf("%w: event date is too close to now", ErrConflict)
	ErrNotInitiator      = fmt.Errorf("%w: user is not the event initiator", ErrConflict)
	ErrCapacityInvariant = fmt.Errorf("%w: participant limit is below confirmed requests", ErrConflict)
)

// Admission conflicts.
var (
	ErrOwnEvent          = fmt.Errorf("%w: cannot request participation in own event", ErrConflict)
	ErrDuplicateRequest  = fmt.Errorf("%w: active participation request already exists", ErrConflict)
	ErrNoSlots           = fmt.Errorf("%w: participant limit reached", ErrConflict)
	ErrForeignRequest    = fmt.Errorf("%w: request does not belong to the event", ErrConflict)
	ErrRequestNotPending = fmt.Errorf("%w: only pending requests can be resolved", ErrConflict)
	ErrBatchOverLimit    = fmt.Errorf("%w: batch exceeds available slots", ErrConflict)
	ErrNotRequester      = fmt.Errorf("%w: request belongs to another user", ErrConflict)
)
