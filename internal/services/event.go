package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventadmission/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	uow            domain.UnitOfWork
	views          domain.ViewCounter
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	uow domain.UnitOfWork,
	views domain.ViewCounter,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		uow:            uow,
		views:          views,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, ownerID string, draft domain.EventDraft) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := domain.NewEvent(ownerID, draft, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, wrap("create event", err)
	}
	return event, nil
}

func (s *eventService) GetOwnEvent(ctx context.Context, ownerID, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrap("get event", err)
	}
	if event.InitiatorID != ownerID {
		return nil, domain.ErrNotInitiator
	}
	s.attachViews(ctx, event)
	return event, nil
}

// GetPublishedEvent returns a published event with its view count. Events in
// any other state are reported as not found.
func (s *eventService) GetPublishedEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrap("get event", err)
	}
	if event.State != domain.EventStatePublished {
		return nil, domain.ErrNotFound
	}
	s.attachViews(ctx, event)
	return event, nil
}

func (s *eventService) attachViews(ctx context.Context, event *domain.Event) {
	if s.views == nil || event.State != domain.EventStatePublished {
		return
	}
	views, err := s.views.EventViews(ctx, event.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "event views unavailable", "event_id", event.ID, "error", err)
		return
	}
	event.Views = views
}

func (s *eventService) UpdateEventByOwner(ctx context.Context, ownerID, eventID string, patch domain.EventPatch, action *domain.StateAction) (*domain.Event, error) {
	if action != nil && !action.OwnerAction() {
		return nil, invalidAction(*action)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var updated *domain.Event
	err := s.uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
		event, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if event.InitiatorID != ownerID {
			return domain.ErrNotInitiator
		}
		now := s.now().UTC()
		if err := event.ApplyPatch(patch, now, domain.OwnerLeadTime); err != nil {
			return err
		}
		if action != nil {
			if err := event.ApplyAction(*action, now); err != nil {
				return err
			}
		}
		if err := tx.UpdateEvent(ctx, event); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, wrap("update event", err)
	}
	return updated, nil
}

func (s *eventService) AdminUpdateEvent(ctx context.Context, eventID string, patch domain.EventPatch, action *domain.StateAction) (*domain.Event, error) {
	if action != nil && !action.AdminAction() {
		return nil, invalidAction(*action)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var updated *domain.Event
	err := s.uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
		event, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		if err := event.ApplyPatch(patch, now, domain.PublishLeadTime); err != nil {
			return err
		}
		if action != nil {
			if err := event.ApplyAction(*action, now); err != nil {
				return err
			}
		}
		if err := tx.UpdateEvent(ctx, event); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, wrap("admin update event", err)
	}
	if action != nil {
		s.logger.InfoContext(ctx, "event moderated", "event_id", updated.ID, "action", string(*action), "state", string(updated.State))
	}
	return updated, nil
}

func (s *eventService) PublishEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	action := domain.StateActionPublish
	return s.AdminUpdateEvent(ctx, eventID, domain.EventPatch{}, &action)
}

func (s *eventService) RejectEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	action := domain.StateActionReject
	return s.AdminUpdateEvent(ctx, eventID, domain.EventPatch{}, &action)
}

func invalidAction(a domain.StateAction) error {
	return fmt.Errorf("%w: state action %q is not allowed here", domain.ErrInvalidInput, a)
}
