package domain

import (
	"context"
	"time"
)

// EventState is the publication state of an event.
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// Valid reports whether s is one of the known states.
func (s EventState) Valid() bool {
	switch s {
	case EventStatePending, EventStatePublished, EventStateCanceled:
		return true
	}
	return false
}

// Location is the geographic point of an event.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event represents a capacity-limited event published by an initiator.
// swagger:model Event
type Event struct {
	ID                string     `json:"id"`
	InitiatorID       string     `json:"initiator"`
	Title             string     `json:"title"`
	Annotation        string     `json:"annotation"`
	Description       string     `json:"description"`
	CategoryID        string     `json:"category"`
	EventDate         time.Time  `json:"eventDate"`
	Location          Location   `json:"location"`
	Paid              bool       `json:"paid"`
	ParticipantLimit  int        `json:"participantLimit"`
	ConfirmedRequests int        `json:"confirmedRequests"`
	RequestModeration bool       `json:"requestModeration"`
	State             EventState `json:"state"`
	ReviewRequested   bool       `json:"reviewRequested"`
	CreatedOn         time.Time  `json:"createdOn"`
	PublishedOn       *time.Time `json:"publishedOn"`
	Views             int64      `json:"views"`
}

// EventDraft carries the fields an initiator supplies when creating an event.
// Optional fields are pointers so defaults can be applied.
type EventDraft struct {
	Title             string
	Annotation        string
	Description       string
	CategoryID        string
	EventDate         time.Time
	Location          Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
}

// EventPatch is a partial update of the editable fields of a pending event.
type EventPatch struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *string
	EventDate         *time.Time
	Location          *Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
}

// StateAction is an optional lifecycle action attached to an event update.
type StateAction string

const (
	StateActionSendToReview StateAction = "SEND_TO_REVIEW"
	StateActionCancelReview StateAction = "CANCEL_REVIEW"
	StateActionPublish      StateAction = "PUBLISH_EVENT"
	StateActionReject       StateAction = "REJECT_EVENT"
)

// OwnerAction reports whether a is an action the initiator may take.
func (a StateAction) OwnerAction() bool {
	return a == StateActionSendToReview || a == StateActionCancelReview
}

// AdminAction reports whether a is an action reserved for administrators.
func (a StateAction) AdminAction() bool {
	return a == StateActionPublish || a == StateActionReject
}

// EventRepository defines the interface for event storage outside a unit of work.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
}

// ViewCounter supplies hit counts for events from the statistics service.
type ViewCounter interface {
	EventViews(ctx context.Context, eventID string) (int64, error)
}

// HitRecorder reports a view of a public endpoint to the statistics service.
type HitRecorder interface {
	RecordHit(ctx context.Context, uri, ip string) error
}

// EventService defines the event lifecycle operations.
type EventService interface {
	CreateEvent(ctx context.Context, ownerID string, draft EventDraft) (*Event, error)
	GetOwnEvent(ctx context.Context, ownerID, eventID string) (*Event, error)
	GetPublishedEvent(ctx context.Context, eventID string) (*Event, error)
	UpdateEventByOwner(ctx context.Context, ownerID, eventID string, patch EventPatch, action *StateAction) (*Event, error)
	AdminUpdateEvent(ctx context.Context, eventID string, patch EventPatch, action *StateAction) (*Event, error)
	PublishEvent(ctx context.Context, eventID string) (*Event, error)
	RejectEvent(ctx context.Context, eventID string) (*Event, error)
}
