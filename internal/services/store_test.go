package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"eventadmission/internal/domain"

	"github.com/google/uuid"
)

// memStore is an in-memory event and request store. Atomically holds the
// store lock for the whole unit of work and restores the previous contents
// when fn fails.
type memStore struct {
	mu       sync.Mutex
	events   map[string]domain.Event
	requests map[string]domain.ParticipationRequest
	users    map[string]domain.User
	order    []string // request ids in insertion order

	createErr error
}

func newMemStore() *memStore {
	return &memStore{
		events:   make(map[string]domain.Event),
		requests: make(map[string]domain.ParticipationRequest),
		users:    make(map[string]domain.User),
	}
}

func (m *memStore) putEvent(e domain.Event) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.events[e.ID] = e
	return e.ID
}

func (m *memStore) putRequest(r domain.ParticipationRequest) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	m.requests[r.ID] = r
	m.order = append(m.order, r.ID)
	return r.ID
}

func (m *memStore) event(id string) domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id]
}

func (m *memStore) request(id string) domain.ParticipationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[id]
}

func (m *memStore) countByStatus(eventID string, status domain.RequestStatus) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.requests {
		if r.EventID == eventID && r.Status == status {
			n++
		}
	}
	return n
}

// EventRepository

func (m *memStore) Create(ctx context.Context, e *domain.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.NewString()
	m.events[e.ID] = *e
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// UnitOfWork

func (m *memStore) Atomically(ctx context.Context, fn func(ctx context.Context, tx domain.AdmissionTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := make(map[string]domain.Event, len(m.events))
	for k, v := range m.events {
		events[k] = v
	}
	requests := make(map[string]domain.ParticipationRequest, len(m.requests))
	for k, v := range m.requests {
		requests[k] = v
	}
	order := append([]string(nil), m.order...)

	if err := fn(ctx, &memTx{m: m}); err != nil {
		m.events, m.requests, m.order = events, requests, order
		return err
	}
	return nil
}

type memTx struct {
	m *memStore
}

func (t *memTx) LockEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	e, ok := t.m.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (t *memTx) UpdateEvent(ctx context.Context, e *domain.Event) error {
	if _, ok := t.m.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	if e.ParticipantLimit > 0 && e.ConfirmedRequests > e.ParticipantLimit {
		return domain.ErrCapacityInvariant
	}
	t.m.events[e.ID] = *e
	return nil
}

func (t *memTx) FindActiveRequest(ctx context.Context, requesterID, eventID string) (*domain.ParticipationRequest, error) {
	for _, r := range t.m.requests {
		if r.RequesterID == requesterID && r.EventID == eventID && r.Status.Active() {
			return &r, nil
		}
	}
	return nil, nil
}

func (t *memTx) CreateRequest(ctx context.Context, req *domain.ParticipationRequest) error {
	if req.Status.Active() {
		for _, r := range t.m.requests {
			if r.RequesterID == req.RequesterID && r.EventID == req.EventID && r.Status.Active() {
				return domain.ErrDuplicateRequest
			}
		}
	}
	req.ID = uuid.NewString()
	t.m.requests[req.ID] = *req
	t.m.order = append(t.m.order, req.ID)
	return nil
}

func (t *memTx) LockRequests(ctx context.Context, ids []string) ([]*domain.ParticipationRequest, error) {
	out := make([]*domain.ParticipationRequest, 0, len(ids))
	for _, id := range ids {
		if r, ok := t.m.requests[id]; ok {
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) SetRequestStatus(ctx context.Context, ids []string, status domain.RequestStatus) error {
	for _, id := range ids {
		r, ok := t.m.requests[id]
		if !ok {
			return fmt.Errorf("set request status: %s missing", id)
		}
		r.Status = status
		t.m.requests[id] = r
	}
	return nil
}

// requestRepo adapts memStore to domain.RequestRepository; the method names
// clash with EventRepository.
type requestRepo struct {
	m *memStore
}

func (r requestRepo) GetByID(ctx context.Context, id string) (*domain.ParticipationRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	req, ok := r.m.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &req, nil
}

func (r requestRepo) ListByRequester(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	return r.list(func(p domain.ParticipationRequest) bool { return p.RequesterID == requesterID }, true), nil
}

func (r requestRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.ParticipationRequest, error) {
	return r.list(func(p domain.ParticipationRequest) bool { return p.EventID == eventID }, false), nil
}

func (r requestRepo) list(keep func(domain.ParticipationRequest) bool, newestFirst bool) []*domain.ParticipationRequest {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*domain.ParticipationRequest, 0)
	for _, id := range r.m.order {
		p := r.m.requests[id]
		if keep(p) {
			out = append(out, &p)
		}
	}
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// userRepo adapts memStore to domain.UserRepository.
type userRepo struct {
	m *memStore
}

func (u userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	user, ok := u.m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

// recordingPublisher collects published status changes.
type recordingPublisher struct {
	mu      sync.Mutex
	changes []domain.RequestStatusChanged
	err     error
}

func (p *recordingPublisher) PublishStatusChanged(ctx context.Context, change domain.RequestStatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.changes = append(p.changes, change)
	return nil
}

func (p *recordingPublisher) statuses() []domain.RequestStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.RequestStatus, 0, len(p.changes))
	for _, c := range p.changes {
		out = append(out, c.Status)
	}
	return out
}

// recordingNotifications collects resolution emails. When release is set,
// each send blocks until it is closed.
type recordingNotifications struct {
	mu      sync.Mutex
	sent    []*domain.RequestResolvedEmailData
	err     error
	release chan struct{}
}

func (n *recordingNotifications) SendRequestResolved(ctx context.Context, data *domain.RequestResolvedEmailData) error {
	if n.release != nil {
		select {
		case <-n.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, data)
	return nil
}

func (n *recordingNotifications) emails() []*domain.RequestResolvedEmailData {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*domain.RequestResolvedEmailData(nil), n.sent...)
}

// fakeViews returns a fixed view count or an error.
type fakeViews struct {
	views int64
	err   error
}

func (f fakeViews) EventViews(ctx context.Context, eventID string) (int64, error) {
	return f.views, f.err
}

var errBoom = errors.New("boom")
