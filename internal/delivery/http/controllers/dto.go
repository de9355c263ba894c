package controllers

import (
	"encoding/json"
	"fmt"
	"time"

	"eventadmission/internal/delivery/http/helpers"
	"eventadmission/internal/domain"
)

// DateTimeLayout is the wire format of event dates. Values are UTC.
const DateTimeLayout = "2006-01-02 15:04:05"

// DateTime is a timestamp encoded as DateTimeLayout.
type DateTime struct {
	time.Time
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(DateTimeLayout))
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string in format %q", DateTimeLayout)
	}
	t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("date must be in format %q", DateTimeLayout)
	}
	d.Time = t
	return nil
}

// LocationDTO is a geographic point in request bodies.
type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (l LocationDTO) validate() []string {
	var errs []string
	if l.Lat < -90 || l.Lat > 90 {
		errs = append(errs, "location.lat must be between -90 and 90")
	}
	if l.Lon < -180 || l.Lon > 180 {
		errs = append(errs, "location.lon must be between -180 and 180")
	}
	return errs
}

// NewEventRequest is the request body for POST /events.
type NewEventRequest struct {
	Title             string       `json:"title"`
	Annotation        string       `json:"annotation"`
	Description       string       `json:"description"`
	Category          string       `json:"category"`
	EventDate         *DateTime    `json:"eventDate" swaggertype:"string" example:"2026-05-12 18:00:00"`
	Location          *LocationDTO `json:"location"`
	Paid              *bool        `json:"paid"`
	ParticipantLimit  *int         `json:"participantLimit"`
	RequestModeration *bool        `json:"requestModeration"`
}

// Validate implements Validator. Text length rules live in the domain.
func (n NewEventRequest) Validate() []string {
	var errs []string
	if n.EventDate == nil {
		errs = append(errs, "eventDate is required")
	}
	if n.Location == nil {
		errs = append(errs, "location is required")
	} else {
		errs = append(errs, n.Location.validate()...)
	}
	return errs
}

func (n NewEventRequest) toDraft() domain.EventDraft {
	d := domain.EventDraft{
		Title:             n.Title,
		Annotation:        n.Annotation,
		Description:       n.Description,
		CategoryID:        n.Category,
		Paid:              n.Paid,
		ParticipantLimit:  n.ParticipantLimit,
		RequestModeration: n.RequestModeration,
	}
	if n.EventDate != nil {
		d.EventDate = n.EventDate.Time
	}
	if n.Location != nil {
		d.Location = domain.Location{Lat: n.Location.Lat, Lon: n.Location.Lon}
	}
	return d
}

// UpdateEventRequest is the request body for owner and admin event updates.
// All fields are optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title             *string      `json:"title"`
	Annotation        *string      `json:"annotation"`
	Description       *string      `json:"description"`
	Category          *string      `json:"category"`
	EventDate         *DateTime    `json:"eventDate" swaggertype:"string" example:"2026-05-12 18:00:00"`
	Location          *LocationDTO `json:"location"`
	Paid              *bool        `json:"paid"`
	ParticipantLimit  *int         `json:"participantLimit"`
	RequestModeration *bool        `json:"requestModeration"`
	StateAction       *string      `json:"stateAction" enums:"SEND_TO_REVIEW,CANCEL_REVIEW,PUBLISH_EVENT,REJECT_EVENT"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Location != nil {
		errs = append(errs, u.Location.validate()...)
	}
	if u.StateAction != nil {
		switch a := domain.StateAction(*u.StateAction); {
		case a.OwnerAction(), a.AdminAction():
		default:
			errs = append(errs, fmt.Sprintf("unknown stateAction %q", *u.StateAction))
		}
	}
	return errs
}

func (u UpdateEventRequest) toPatch() (domain.EventPatch, *domain.StateAction) {
	p := domain.EventPatch{
		Title:             u.Title,
		Annotation:        u.Annotation,
		Description:       u.Description,
		CategoryID:        u.Category,
		Paid:              u.Paid,
		ParticipantLimit:  u.ParticipantLimit,
		RequestModeration: u.RequestModeration,
	}
	if u.EventDate != nil {
		t := u.EventDate.Time
		p.EventDate = &t
	}
	if u.Location != nil {
		p.Location = &domain.Location{Lat: u.Location.Lat, Lon: u.Location.Lon}
	}
	var action *domain.StateAction
	if u.StateAction != nil {
		a := domain.StateAction(*u.StateAction)
		action = &a
	}
	return p, action
}

// NewRequestRequest is the request body for POST /users/me/requests.
type NewRequestRequest struct {
	EventID string `json:"eventId"`
}

// Validate implements Validator.
func (n NewRequestRequest) Validate() []string {
	if n.EventID == "" {
		return []string{"eventId is required"}
	}
	if !helpers.IsUUID(n.EventID) {
		return []string{"eventId must be a UUID"}
	}
	return nil
}

// ResolveRequestsRequest is the request body for PATCH /users/me/events/{eventID}/requests.
type ResolveRequestsRequest struct {
	RequestIDs []string `json:"requestIds"`
	Status     string   `json:"status" enums:"CONFIRMED,REJECTED"`
}

// Validate implements Validator.
func (r ResolveRequestsRequest) Validate() []string {
	var errs []string
	if len(r.RequestIDs) == 0 {
		errs = append(errs, "requestIds must not be empty")
	}
	for _, id := range r.RequestIDs {
		if !helpers.IsUUID(id) {
			errs = append(errs, fmt.Sprintf("requestIds: %q is not a UUID", id))
			break
		}
	}
	switch domain.RequestStatus(r.Status) {
	case domain.RequestStatusConfirmed, domain.RequestStatusRejected:
	default:
		errs = append(errs, "status must be CONFIRMED or REJECTED")
	}
	return errs
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RequestSuccessResponse is the success envelope for endpoints returning one request.
type RequestSuccessResponse struct {
	Data  *domain.ParticipationRequest `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// RequestListSuccessResponse is the success envelope for request lists.
type RequestListSuccessResponse struct {
	Data  []*domain.ParticipationRequest `json:"data"`
	Error *helpers.APIError              `json:"error"`
}

// ResolutionSuccessResponse is the success envelope for batch resolution.
type ResolutionSuccessResponse struct {
	Data  *domain.RequestResolution `json:"data"`
	Error *helpers.APIError         `json:"error"`
}
