package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Minimum lead times between now and the event date.
const (
	PublishLeadTime = time.Hour
	OwnerLeadTime   = 2 * time.Hour
)

// Field length limits for event text.
const (
	minTitleLen       = 3
	maxTitleLen       = 120
	minAnnotationLen  = 20
	maxAnnotationLen  = 2000
	minDescriptionLen = 20
	maxDescriptionLen = 7000
)

// NewEvent builds a pending event from a draft after validating it.
// Defaults: unlimited participants, moderation on, free.
func NewEvent(initiatorID string, d EventDraft, now time.Time) (*Event, error) {
	var errs []string
	if strings.TrimSpace(initiatorID) == "" {
		errs = append(errs, "initiator is required")
	}
	errs = append(errs, checkLen("title", d.Title, minTitleLen, maxTitleLen)...)
	errs = append(errs, checkLen("annotation", d.Annotation, minAnnotationLen, maxAnnotationLen)...)
	errs = append(errs, checkLen("description", d.Description, minDescriptionLen, maxDescriptionLen)...)
	if strings.TrimSpace(d.CategoryID) == "" {
		errs = append(errs, "category is required")
	}
	if d.EventDate.IsZero() {
		errs = append(errs, "eventDate is required")
	}
	if d.ParticipantLimit != nil && *d.ParticipantLimit < 0 {
		errs = append(errs, "participantLimit must be zero or positive")
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errs, "; "))
	}
	if d.EventDate.Before(now.Add(OwnerLeadTime)) {
		return nil, ErrEventTooSoon
	}

	e := &Event{
		InitiatorID:       initiatorID,
		Title:             d.Title,
		Annotation:        d.Annotation,
		Description:       d.Description,
		CategoryID:        d.CategoryID,
		EventDate:         d.EventDate,
		Location:          d.Location,
		RequestModeration: true,
		State:             EventStatePending,
		CreatedOn:         now,
	}
	if d.Paid != nil {
		e.Paid = *d.Paid
	}
	if d.ParticipantLimit != nil {
		e.ParticipantLimit = *d.ParticipantLimit
	}
	if d.RequestModeration != nil {
		e.RequestModeration = *d.RequestModeration
	}
	return e, nil
}

func checkLen(field, v string, lo, hi int) []string {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	if n == 0 {
		return []string{field + " is required"}
	}
	if n < lo || n > hi {
		return []string{fmt.Sprintf("%s must be between %d and %d characters", field, lo, hi)}
	}
	return nil
}

// Editable returns ErrEventNotPending unless the event is still pending.
func (e *Event) Editable() error {
	switch e.State {
	case EventStatePending:
		return nil
	case EventStatePublished, EventStateCanceled:
		return ErrEventNotPending
	}
	return fmt.Errorf("%w: unknown event state %q", ErrInvalidInput, e.State)
}

// Validate checks a patch without touching the event.
func (p EventPatch) Validate() error {
	var errs []string
	if p.Title != nil {
		errs = append(errs, checkLen("title", *p.Title, minTitleLen, maxTitleLen)...)
	}
	if p.Annotation != nil {
		errs = append(errs, checkLen("annotation", *p.Annotation, minAnnotationLen, maxAnnotationLen)...)
	}
	if p.Description != nil {
		errs = append(errs, checkLen("description", *p.Description, minDescriptionLen, maxDescriptionLen)...)
	}
	if p.CategoryID != nil && strings.TrimSpace(*p.CategoryID) == "" {
		errs = append(errs, "category must not be empty")
	}
	if p.ParticipantLimit != nil && *p.ParticipantLimit < 0 {
		errs = append(errs, "participantLimit must be zero or positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

// ApplyPatch edits a pending event. leadTime is the minimum distance between
// now and a new event date. The event is left untouched on error.
func (e *Event) ApplyPatch(p EventPatch, now time.Time, leadTime time.Duration) error {
	if err := e.Editable(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.EventDate != nil && p.EventDate.Before(now.Add(leadTime)) {
		return ErrEventTooSoon
	}
	if p.ParticipantLimit != nil {
		if l := *p.ParticipantLimit; l > 0 && e.ConfirmedRequests > l {
			return ErrCapacityInvariant
		}
	}

	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Annotation != nil {
		e.Annotation = *p.Annotation
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.CategoryID != nil {
		e.CategoryID = *p.CategoryID
	}
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Paid != nil {
		e.Paid = *p.Paid
	}
	if p.ParticipantLimit != nil {
		e.ParticipantLimit = *p.ParticipantLimit
	}
	if p.RequestModeration != nil {
		e.RequestModeration = *p.RequestModeration
	}
	return nil
}

// Publish moves a pending event to PUBLISHED.
func (e *Event) Publish(now time.Time) error {
	if err := e.Editable(); err != nil {
		return err
	}
	if e.EventDate.Before(now.Add(PublishLeadTime)) {
		return ErrEventTooSoon
	}
	e.State = EventStatePublished
	published := now
	e.PublishedOn = &published
	return nil
}

// Reject moves a pending event to CANCELED.
func (e *Event) Reject() error {
	if err := e.Editable(); err != nil {
		return err
	}
	e.State = EventStateCanceled
	e.PublishedOn = nil
	return nil
}

// ApplyAction runs a lifecycle action. Review toggles keep the event pending.
func (e *Event) ApplyAction(a StateAction, now time.Time) error {
	switch a {
	case StateActionPublish:
		return e.Publish(now)
	case StateActionReject:
		return e.Reject()
	case StateActionSendToReview:
		if err := e.Editable(); err != nil {
			return err
		}
		e.ReviewRequested = true
		return nil
	case StateActionCancelReview:
		if err := e.Editable(); err != nil {
			return err
		}
		e.ReviewRequested = false
		return nil
	}
	return fmt.Errorf("%w: unknown state action %q", ErrInvalidInput, a)
}
