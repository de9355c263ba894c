package postgres

import (
	"errors"
	"fmt"

	"eventadmission/internal/domain"

	"github.com/lib/pq"
)

// Postgres error codes this package reacts to.
const (
	codeUniqueViolation           = "23505"
	codeCheckViolation            = "23514"
	codeForeignKeyViolation       = "23503"
	codeInvalidTextRepresentation = "22P02"
	codeSerializationFailure      = "40001"
	codeDeadlockDetected          = "40P01"
)

// Constraint names declared in migrations/0001_init.up.sql.
const (
	constraintActiveRequest    = "participation_requests_active_uniq"
	constraintEventCapacity    = "events_capacity"
	constraintEventInitiator   = "events_initiator_id_fkey"
	constraintRequestRequester = "participation_requests_requester_id_fkey"
	constraintRequestEvent     = "participation_requests_event_id_fkey"
)

// mapPQError translates the violations a caller can cause into domain errors.
// A dangling reference or an id that is not a UUID means the referenced row
// does not exist. Anything else is returned unchanged.
func mapPQError(err error) error {
	var perr *pq.Error
	if !errors.As(err, &perr) {
		return err
	}
	switch perr.Code {
	case codeUniqueViolation:
		if perr.Constraint == constraintActiveRequest {
			return domain.ErrDuplicateRequest
		}
	case codeCheckViolation:
		if perr.Constraint == constraintEventCapacity {
			return domain.ErrCapacityInvariant
		}
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, referencedEntity(perr.Constraint))
	case codeInvalidTextRepresentation:
		return fmt.Errorf("%w: malformed id", domain.ErrNotFound)
	}
	return err
}

func referencedEntity(constraint string) string {
	switch constraint {
	case constraintEventInitiator, constraintRequestRequester:
		return "user"
	case constraintRequestEvent:
		return "event"
	}
	return "referenced row"
}

// retryable reports whether the transaction was aborted by the server and
// may succeed if run again.
func retryable(err error) bool {
	var perr *pq.Error
	if !errors.As(err, &perr) {
		return false
	}
	return perr.Code == codeSerializationFailure || perr.Code == codeDeadlockDetected
}
