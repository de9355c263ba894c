package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"eventadmission/internal/domain"
)

const (
	notificationDateLayout = "2006-01-02 15:04"
	notificationTimeout    = 30 * time.Second
	// maxConcurrentNotifications caps resolution email jobs sending at once.
	maxConcurrentNotifications = 4
)

type requestService struct {
	eventRepo      domain.EventRepository
	requestRepo    domain.RequestRepository
	userRepo       domain.UserRepository
	uow            domain.UnitOfWork
	publisher      domain.StatusPublisher
	notifications  domain.NotificationService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time

	notifySem chan struct{}
	notifyWG  sync.WaitGroup
}

func NewRequestService(eventRepo domain.EventRepository,
	requestRepo domain.RequestRepository,
	userRepo domain.UserRepository,
	uow domain.UnitOfWork,
	publisher domain.StatusPublisher,
	notifications domain.NotificationService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RequestService {
	return &requestService{
		eventRepo:      eventRepo,
		requestRepo:    requestRepo,
		userRepo:       userRepo,
		uow:            uow,
		publisher:      publisher,
		notifications:  notifications,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
		notifySem:      make(chan struct{}, maxConcurrentNotifications),
	}
}

// CreateRequest admits requesterID to eventID. The initial status depends on
// the event: unlimited and unmoderated events confirm immediately while slots
// remain, a full unmoderated event records a rejection, and moderated events
// leave the request pending for the organizer.
func (s *requestService) CreateRequest(ctx context.Context, requesterID, eventID string) (*domain.ParticipationRequest, error) {
	if strings.TrimSpace(requesterID) == "" || strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("%w: requester and event are required", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var created *domain.ParticipationRequest
	err := s.uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
		event, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}
		active, err := tx.FindActiveRequest(ctx, requesterID, eventID)
		if err != nil {
			return err
		}
		if err := domain.CheckAdmission(event, requesterID, active); err != nil {
			return err
		}
		status := domain.DecideStatus(event)
		req := domain.NewParticipationRequest(requesterID, eventID, status, s.now().UTC())
		if err := tx.CreateRequest(ctx, req); err != nil {
			return err
		}
		if status == domain.RequestStatusConfirmed {
			if err := tx.UpdateEvent(ctx, event); err != nil {
				return err
			}
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, wrap("create request", err)
	}

	s.publish(ctx, created)
	return created, nil
}

// ResolveRequests confirms or rejects a batch of pending requests of one event.
// The batch is validated as a whole before anything is written; on success the
// requests are resolved in the given order.
func (s *requestService) ResolveRequests(ctx context.Context, ownerID, eventID string, requestIDs []string, target domain.RequestStatus) (*domain.RequestResolution, error) {
	if err := domain.ValidateResolutionTarget(requestIDs, target); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		resolution *domain.RequestResolution
		resolved   domain.Event
	)
	err := s.uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
		event, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if event.InitiatorID != ownerID {
			return domain.ErrNotInitiator
		}
		locked, err := tx.LockRequests(ctx, requestIDs)
		if err != nil {
			return err
		}
		found := make(map[string]*domain.ParticipationRequest, len(locked))
		for _, r := range locked {
			found[r.ID] = r
		}
		if v := domain.ValidateBatch(event, requestIDs, found, target); v != nil {
			return v
		}

		ordered := make([]*domain.ParticipationRequest, 0, len(requestIDs))
		for _, id := range requestIDs {
			ordered = append(ordered, found[id])
		}
		before := event.ConfirmedRequests
		res := domain.ResolveBatch(event, ordered, target)
		if err := tx.SetRequestStatus(ctx, requestIDsOf(res.ConfirmedRequests), domain.RequestStatusConfirmed); err != nil {
			return err
		}
		if err := tx.SetRequestStatus(ctx, requestIDsOf(res.RejectedRequests), domain.RequestStatusRejected); err != nil {
			return err
		}
		if event.ConfirmedRequests != before {
			if err := tx.UpdateEvent(ctx, event); err != nil {
				return err
			}
		}
		resolution = res
		resolved = *event
		return nil
	})
	if err != nil {
		return nil, wrap("resolve requests", err)
	}

	s.logger.InfoContext(ctx, "participation requests resolved",
		"event_id", eventID,
		"confirmed", len(resolution.ConfirmedRequests),
		"rejected", len(resolution.RejectedRequests),
	)
	s.publish(ctx, resolution.ConfirmedRequests...)
	s.publish(ctx, resolution.RejectedRequests...)
	notify := make([]*domain.ParticipationRequest, 0, len(requestIDs))
	notify = append(notify, resolution.ConfirmedRequests...)
	notify = append(notify, resolution.RejectedRequests...)
	s.notifyResolved(ctx, resolved, notify)
	return resolution, nil
}

// CancelRequest withdraws the caller's own request. A confirmed request of a
// moderated event gives its slot back. Canceling twice is a no-op.
func (s *requestService) CancelRequest(ctx context.Context, requesterID, requestID string) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, wrap("get request", err)
	}
	if req.RequesterID != requesterID {
		if s.userRepo != nil {
			if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
				return nil, wrap("get user", err)
			}
		}
		return nil, domain.ErrNotRequester
	}

	var (
		canceled *domain.ParticipationRequest
		changed  bool
	)
	err = s.uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
		event, err := tx.LockEvent(ctx, req.EventID)
		if err != nil {
			return err
		}
		locked, err := tx.LockRequests(ctx, []string{requestID})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return fmt.Errorf("%w: participation request", domain.ErrNotFound)
		}
		r := locked[0]
		before := event.ConfirmedRequests
		changed = domain.Cancel(event, r)
		if changed {
			if err := tx.SetRequestStatus(ctx, []string{r.ID}, domain.RequestStatusCanceled); err != nil {
				return err
			}
			if event.ConfirmedRequests != before {
				if err := tx.UpdateEvent(ctx, event); err != nil {
					return err
				}
			}
		}
		canceled = r
		return nil
	})
	if err != nil {
		return nil, wrap("cancel request", err)
	}

	if changed {
		s.publish(ctx, canceled)
	}
	return canceled, nil
}

func (s *requestService) ListMyRequests(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reqs, err := s.requestRepo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, wrap("list requests", err)
	}
	if reqs == nil {
		reqs = []*domain.ParticipationRequest{}
	}
	return reqs, nil
}

func (s *requestService) ListEventRequests(ctx context.Context, ownerID, eventID string) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrap("get event", err)
	}
	if event.InitiatorID != ownerID {
		return nil, domain.ErrNotInitiator
	}
	reqs, err := s.requestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, wrap("list event requests", err)
	}
	if reqs == nil {
		reqs = []*domain.ParticipationRequest{}
	}
	return reqs, nil
}

// publish announces each request's current status. Failures are logged; the
// state change has already committed.
func (s *requestService) publish(ctx context.Context, reqs ...*domain.ParticipationRequest) {
	if s.publisher == nil {
		return
	}
	now := s.now().UTC()
	for _, r := range reqs {
		change := domain.RequestStatusChanged{
			RequestID:   r.ID,
			EventID:     r.EventID,
			RequesterID: r.RequesterID,
			Status:      r.Status,
			ChangedAt:   now,
		}
		if err := s.publisher.PublishStatusChanged(ctx, change); err != nil {
			s.logger.WarnContext(ctx, "publish request status", "request_id", r.ID, "status", string(r.Status), "error", err)
		}
	}
}

// notifyResolved emails each requester about the outcome of their request.
// The job runs in the background after the caller returns; Wait drains it.
func (s *requestService) notifyResolved(ctx context.Context, event domain.Event, reqs []*domain.ParticipationRequest) {
	if s.notifications == nil || s.userRepo == nil || len(reqs) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.notifyWG.Add(1)
	go func() {
		defer s.notifyWG.Done()
		s.notifySem <- struct{}{}
		defer func() { <-s.notifySem }()

		ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
		defer cancel()
		s.sendResolutionEmails(ctx, &event, reqs)
	}()
}

// Wait blocks until queued resolution emails are sent or ctx is done.
func (s *requestService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.notifyWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *requestService) sendResolutionEmails(ctx context.Context, event *domain.Event, reqs []*domain.ParticipationRequest) {
	for _, r := range reqs {
		user, err := s.userRepo.GetByID(ctx, r.RequesterID)
		if err != nil {
			s.logger.WarnContext(ctx, "look up requester for notification", "request_id", r.ID, "error", err)
			continue
		}
		data := &domain.RequestResolvedEmailData{
			Email:      user.Email,
			Name:       user.Name,
			EventTitle: event.Title,
			EventDate:  event.EventDate.UTC().Format(notificationDateLayout),
			Status:     r.Status,
		}
		if err := s.notifications.SendRequestResolved(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "send request resolution email", "request_id", r.ID, "error", err)
		}
	}
}

func requestIDsOf(reqs []*domain.ParticipationRequest) []string {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	return ids
}
