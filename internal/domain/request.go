package domain

import (
	"context"
	"time"
)

// RequestStatus is the status of a participation request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// Valid reports whether s is one of the known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusConfirmed, RequestStatusRejected, RequestStatusCanceled:
		return true
	}
	return false
}

// Active reports whether a request in this status blocks a new request
// from the same user for the same event.
func (s RequestStatus) Active() bool {
	switch s {
	case RequestStatusPending, RequestStatusConfirmed:
		return true
	case RequestStatusRejected, RequestStatusCanceled:
		return false
	}
	return false
}

// ParticipationRequest is a user's request to take part in an event.
// swagger:model ParticipationRequest
type ParticipationRequest struct {
	ID          string        `json:"id"`
	RequesterID string        `json:"requester"`
	EventID     string        `json:"event"`
	Status      RequestStatus `json:"status"`
	Created     time.Time     `json:"created"`
}

// NewParticipationRequest returns a request with the given status. ID is set by the repository on create.
func NewParticipationRequest(requesterID, eventID string, status RequestStatus, created time.Time) *ParticipationRequest {
	return &ParticipationRequest{
		RequesterID: requesterID,
		EventID:     eventID,
		Status:      status,
		Created:     created,
	}
}

// RequestResolution is the outcome of a batch resolution, partitioned in input order.
// swagger:model RequestResolution
type RequestResolution struct {
	ConfirmedRequests []*ParticipationRequest `json:"confirmedRequests"`
	RejectedRequests  []*ParticipationRequest `json:"rejectedRequests"`
}

// RequestStatusChanged is published whenever a request reaches a new status.
type RequestStatusChanged struct {
	RequestID   string        `json:"requestId"`
	EventID     string        `json:"eventId"`
	RequesterID string        `json:"requesterId"`
	Status      RequestStatus `json:"status"`
	ChangedAt   time.Time     `json:"changedAt"`
}

// RequestRepository defines read access to participation requests outside a unit of work.
type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*ParticipationRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID string) ([]*ParticipationRequest, error)
}

// AdmissionTx is the set of reads and writes available inside one unit of work.
// LockEvent must be called before any write that depends on the event counters.
type AdmissionTx interface {
	LockEvent(ctx context.Context, eventID string) (*Event, error)
	UpdateEvent(ctx context.Context, event *Event) error
	FindActiveRequest(ctx context.Context, requesterID, eventID string) (*ParticipationRequest, error)
	CreateRequest(ctx context.Context, req *ParticipationRequest) error
	LockRequests(ctx context.Context, ids []string) ([]*ParticipationRequest, error)
	SetRequestStatus(ctx context.Context, ids []string, status RequestStatus) error
}

// UnitOfWork runs fn atomically: either everything fn wrote commits, or nothing does.
type UnitOfWork interface {
	Atomically(ctx context.Context, fn func(ctx context.Context, tx AdmissionTx) error) error
}

// StatusPublisher announces request status changes to downstream consumers.
type StatusPublisher interface {
	PublishStatusChanged(ctx context.Context, change RequestStatusChanged) error
}

// RequestService defines the participation admission operations.
type RequestService interface {
	CreateRequest(ctx context.Context, requesterID, eventID string) (*ParticipationRequest, error)
	ResolveRequests(ctx context.Context, ownerID, eventID string, requestIDs []string, target RequestStatus) (*RequestResolution, error)
	CancelRequest(ctx context.Context, requesterID, requestID string) (*ParticipationRequest, error)
	ListMyRequests(ctx context.Context, requesterID string) ([]*ParticipationRequest, error)
	ListEventRequests(ctx context.Context, ownerID, eventID string) ([]*ParticipationRequest, error)
}
