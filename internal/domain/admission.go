package domain

import (
	"fmt"
)

// Unlimited reports whether the event accepts any number of participants.
func (e *Event) Unlimited() bool {
	return e.ParticipantLimit == 0
}

// AvailableSlots is the number of confirmations the event can still take.
// It is meaningless for unlimited events.
func (e *Event) AvailableSlots() int {
	n := e.ParticipantLimit - e.ConfirmedRequests
	if n < 0 {
		return 0
	}
	return n
}

// HasFreeSlot reports whether one more request can be confirmed.
func (e *Event) HasFreeSlot() bool {
	return e.Unlimited() || e.ConfirmedRequests < e.ParticipantLimit
}

// CheckAdmission runs the preconditions of a new participation request against
// the locked event. active is the requester's current active request, if any.
func CheckAdmission(e *Event, requesterID string, active *ParticipationRequest) error {
	switch e.State {
	case EventStatePublished:
	case EventStatePending, EventStateCanceled:
		return ErrEventNotPublished
	default:
		return fmt.Errorf("%w: unknown event state %q", ErrInvalidInput, e.State)
	}
	if e.InitiatorID == requesterID {
		return ErrOwnEvent
	}
	if active != nil && active.Status.Active() {
		return ErrDuplicateRequest
	}
	// A full unmoderated event still records the request as REJECTED.
	if e.RequestModeration && !e.HasFreeSlot() {
		return ErrNoSlots
	}
	return nil
}

// DecideStatus picks the initial status of a new request and takes a slot
// from the event when the request is confirmed.
func DecideStatus(e *Event) RequestStatus {
	switch {
	case e.Unlimited():
		e.ConfirmedRequests++
		return RequestStatusConfirmed
	case !e.RequestModeration && e.HasFreeSlot():
		e.ConfirmedRequests++
		return RequestStatusConfirmed
	case !e.RequestModeration:
		return RequestStatusRejected
	default:
		return RequestStatusPending
	}
}

// ValidateResolutionTarget checks the target status and id list of a batch resolution.
func ValidateResolutionTarget(ids []string, target RequestStatus) error {
	switch target {
	case RequestStatusConfirmed, RequestStatusRejected:
	case RequestStatusPending, RequestStatusCanceled:
		return fmt.Errorf("%w: status must be CONFIRMED or REJECTED", ErrInvalidInput)
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, target)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: requestIds must not be empty", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: requestIds must not contain empty ids", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate request id %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// BatchViolation describes the first request that failed batch validation.
type BatchViolation struct {
	RequestID string
	Err       error
}

func (v *BatchViolation) Error() string {
	if v.RequestID == "" {
		return v.Err.Error()
	}
	return fmt.Sprintf("request %s: %v", v.RequestID, v.Err)
}

func (v *BatchViolation) Unwrap() error { return v.Err }

// ValidateBatch checks an ordered batch against the event before anything is
// written. found maps request id to the stored request. It returns the first
// violation in this order: missing id, foreign event, non-pending status,
// over-subscription.
func ValidateBatch(e *Event, ids []string, found map[string]*ParticipationRequest, target RequestStatus) *BatchViolation {
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return &BatchViolation{RequestID: id, Err: fmt.Errorf("%w: participation request", ErrNotFound)}
		}
	}
	for _, id := range ids {
		if found[id].EventID != e.ID {
			return &BatchViolation{RequestID: id, Err: ErrForeignRequest}
		}
	}
	for _, id := range ids {
		if found[id].Status != RequestStatusPending {
			return &BatchViolation{RequestID: id, Err: ErrRequestNotPending}
		}
	}
	if target == RequestStatusConfirmed && !e.Unlimited() && e.RequestModeration && len(ids) > e.AvailableSlots() {
		return &BatchViolation{Err: ErrBatchOverLimit}
	}
	return nil
}

// ResolveBatch applies target to every request in order, taking slots from
// the event as requests are confirmed. Requests that find no slot left are
// rejected. Both partitions keep the input order.
func ResolveBatch(e *Event, reqs []*ParticipationRequest, target RequestStatus) *RequestResolution {
	res := &RequestResolution{
		ConfirmedRequests: []*ParticipationRequest{},
		RejectedRequests:  []*ParticipationRequest{},
	}
	for _, r := range reqs {
		if target == RequestStatusConfirmed && e.HasFreeSlot() {
			r.Status = RequestStatusConfirmed
			e.ConfirmedRequests++
			res.ConfirmedRequests = append(res.ConfirmedRequests, r)
			continue
		}
		r.Status = RequestStatusRejected
		res.RejectedRequests = append(res.RejectedRequests, r)
	}
	return res
}

// Cancel marks r as canceled and frees its slot when a confirmed request of a
// moderated event is withdrawn. It returns false if r was already canceled.
func Cancel(e *Event, r *ParticipationRequest) bool {
	prior := r.Status
	switch prior {
	case RequestStatusCanceled:
		return false
	case RequestStatusConfirmed:
		if e.RequestModeration && e.ConfirmedRequests > 0 {
			e.ConfirmedRequests--
		}
	case RequestStatusPending, RequestStatusRejected:
	}
	r.Status = RequestStatusCanceled
	return true
}
