package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"eventadmission/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEventService(store *memStore, views domain.ViewCounter) *eventService {
	svc := NewEventService(store, store, views, testLogger(), 2*time.Second).(*eventService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func pendingEvent(owner string, date time.Time) domain.Event {
	return domain.Event{
		InitiatorID:       owner,
		Title:             "Go meetup",
		Annotation:        strings.Repeat("a", 30),
		Description:       strings.Repeat("d", 30),
		CategoryID:        "cat-1",
		EventDate:         date,
		RequestModeration: true,
		State:             domain.EventStatePending,
		CreatedOn:         fixedNow.Add(-24 * time.Hour),
	}
}

func draft(date time.Time) domain.EventDraft {
	return domain.EventDraft{
		Title:       "Go meetup",
		Annotation:  strings.Repeat("a", 30),
		Description: strings.Repeat("d", 30),
		CategoryID:  "cat-1",
		EventDate:   date,
		Location:    domain.Location{Lat: 1, Lon: 2},
	}
}

func intPtr(i int) *int              { return &i }
func strPtr(s string) *string        { return &s }
func boolPtr(b bool) *bool           { return &b }
func timePtr(t time.Time) *time.Time { return &t }

func actionPtr(a domain.StateAction) *domain.StateAction { return &a }

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		owner     string
		draft     domain.EventDraft
		createErr error
		wantErr   error
	}{
		{name: "success", owner: "user-1", draft: draft(fixedNow.Add(3 * time.Hour))},
		{name: "date too close", owner: "user-1", draft: draft(fixedNow.Add(time.Hour)), wantErr: domain.ErrEventTooSoon},
		{name: "invalid title", owner: "user-1", draft: func() domain.EventDraft {
			d := draft(fixedNow.Add(3 * time.Hour))
			d.Title = "Go"
			return d
		}(), wantErr: domain.ErrInvalidInput},
		{name: "repository error", owner: "user-1", draft: draft(fixedNow.Add(3 * time.Hour)), createErr: errBoom, wantErr: errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.createErr = tt.createErr
			svc := newTestEventService(store, nil)

			got, err := svc.CreateEvent(ctx, tt.owner, tt.draft)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, got.ID)
			assert.Equal(t, domain.EventStatePending, got.State)
			assert.Equal(t, 0, got.ParticipantLimit)
			assert.True(t, got.RequestModeration)
			assert.Equal(t, fixedNow, got.CreatedOn)

			stored := store.event(got.ID)
			assert.Equal(t, "user-1", stored.InitiatorID)
		})
	}
}

func TestEventService_GetPublishedEvent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	pending := store.putEvent(pendingEvent("owner", fixedNow.Add(48*time.Hour)))
	pub := pendingEvent("owner", fixedNow.Add(48*time.Hour))
	pub.State = domain.EventStatePublished
	pub.PublishedOn = timePtr(fixedNow.Add(-time.Hour))
	published := store.putEvent(pub)

	t.Run("pending event is hidden", func(t *testing.T) {
		_, err := newTestEventService(store, fakeViews{views: 5}).GetPublishedEvent(ctx, pending)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := newTestEventService(store, fakeViews{}).GetPublishedEvent(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("views attached", func(t *testing.T) {
		got, err := newTestEventService(store, fakeViews{views: 42}).GetPublishedEvent(ctx, published)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got.Views)
	})

	t.Run("stats failure degrades to zero views", func(t *testing.T) {
		got, err := newTestEventService(store, fakeViews{err: errBoom}).GetPublishedEvent(ctx, published)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.Views)
	})
}

func TestEventService_GetOwnEvent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	id := store.putEvent(pendingEvent("owner", fixedNow.Add(48*time.Hour)))
	svc := newTestEventService(store, nil)

	got, err := svc.GetOwnEvent(ctx, "owner", id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = svc.GetOwnEvent(ctx, "someone-else", id)
	require.ErrorIs(t, err, domain.ErrNotInitiator)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestEventService_UpdateEventByOwner(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(e *domain.Event)
		caller  string
		patch   domain.EventPatch
		action  *domain.StateAction
		wantErr error
		check   func(t *testing.T, got *domain.Event)
	}{
		{
			name:   "edit fields",
			caller: "owner",
			patch: domain.EventPatch{
				Title:            strPtr("Go meetup: generics"),
				ParticipantLimit: intPtr(20),
				EventDate:        timePtr(fixedNow.Add(72 * time.Hour)),
			},
			check: func(t *testing.T, got *domain.Event) {
				assert.Equal(t, "Go meetup: generics", got.Title)
				assert.Equal(t, 20, got.ParticipantLimit)
				assert.True(t, got.EventDate.Equal(fixedNow.Add(72*time.Hour)))
			},
		},
		{
			name:   "send to review keeps pending",
			caller: "owner",
			action: actionPtr(domain.StateActionSendToReview),
			check: func(t *testing.T, got *domain.Event) {
				assert.True(t, got.ReviewRequested)
				assert.Equal(t, domain.EventStatePending, got.State)
			},
		},
		{
			name:    "owner cannot publish",
			caller:  "owner",
			action:  actionPtr(domain.StateActionPublish),
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "not the initiator",
			caller:  "intruder",
			patch:   domain.EventPatch{Title: strPtr("Hijacked")},
			wantErr: domain.ErrNotInitiator,
		},
		{
			name:    "published event is frozen",
			setup:   func(e *domain.Event) { e.State = domain.EventStatePublished },
			caller:  "owner",
			patch:   domain.EventPatch{Title: strPtr("Too late")},
			wantErr: domain.ErrEventNotPending,
		},
		{
			name:    "date inside two hours",
			caller:  "owner",
			patch:   domain.EventPatch{EventDate: timePtr(fixedNow.Add(90 * time.Minute))},
			wantErr: domain.ErrEventTooSoon,
		},
		{
			name: "limit below confirmed",
			setup: func(e *domain.Event) {
				e.ParticipantLimit = 5
				e.ConfirmedRequests = 3
			},
			caller:  "owner",
			patch:   domain.EventPatch{ParticipantLimit: intPtr(2)},
			wantErr: domain.ErrCapacityInvariant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			e := pendingEvent("owner", fixedNow.Add(48*time.Hour))
			if tt.setup != nil {
				tt.setup(&e)
			}
			id := store.putEvent(e)
			before := store.event(id)
			svc := newTestEventService(store, nil)

			got, err := svc.UpdateEventByOwner(ctx, tt.caller, id, tt.patch, tt.action)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, store.event(id), "failed update must not change the event")
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
			assert.Equal(t, *got, store.event(id))
		})
	}
}

func TestEventService_Moderation(t *testing.T) {
	ctx := context.Background()

	t.Run("publish sets state and date", func(t *testing.T) {
		store := newMemStore()
		id := store.putEvent(pendingEvent("owner", fixedNow.Add(2*time.Hour)))
		svc := newTestEventService(store, nil)

		got, err := svc.PublishEvent(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatePublished, got.State)
		require.NotNil(t, got.PublishedOn)
		assert.True(t, got.PublishedOn.Equal(fixedNow))

		_, err = svc.PublishEvent(ctx, id)
		require.ErrorIs(t, err, domain.ErrEventNotPending)
		_, err = svc.RejectEvent(ctx, id)
		require.ErrorIs(t, err, domain.ErrEventNotPending)
	})

	t.Run("publish inside one hour", func(t *testing.T) {
		store := newMemStore()
		id := store.putEvent(pendingEvent("owner", fixedNow.Add(30*time.Minute)))
		svc := newTestEventService(store, nil)

		_, err := svc.PublishEvent(ctx, id)
		require.ErrorIs(t, err, domain.ErrEventTooSoon)
		assert.Equal(t, domain.EventStatePending, store.event(id).State)
	})

	t.Run("reject cancels", func(t *testing.T) {
		store := newMemStore()
		id := store.putEvent(pendingEvent("owner", fixedNow.Add(48*time.Hour)))
		svc := newTestEventService(store, nil)

		got, err := svc.RejectEvent(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.EventStateCanceled, got.State)
		assert.Nil(t, got.PublishedOn)

		_, err = svc.PublishEvent(ctx, id)
		require.ErrorIs(t, err, domain.ErrEventNotPending)
	})

	t.Run("admin edit and publish in one step", func(t *testing.T) {
		store := newMemStore()
		id := store.putEvent(pendingEvent("owner", fixedNow.Add(48*time.Hour)))
		svc := newTestEventService(store, nil)

		got, err := svc.AdminUpdateEvent(ctx, id, domain.EventPatch{
			EventDate:         timePtr(fixedNow.Add(90 * time.Minute)),
			RequestModeration: boolPtr(false),
		}, actionPtr(domain.StateActionPublish))
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatePublished, got.State)
		assert.False(t, got.RequestModeration)
	})

	t.Run("admin cannot use review actions", func(t *testing.T) {
		store := newMemStore()
		id := store.putEvent(pendingEvent("owner", fixedNow.Add(48*time.Hour)))
		_, err := newTestEventService(store, nil).AdminUpdateEvent(ctx, id, domain.EventPatch{}, actionPtr(domain.StateActionCancelReview))
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := newTestEventService(newMemStore(), nil).PublishEvent(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
