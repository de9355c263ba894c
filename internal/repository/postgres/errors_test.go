package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"eventadmission/internal/domain"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPQError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantErr  error
		wantText string
	}{
		{
			name:    "active request unique index",
			err:     &pq.Error{Code: "23505", Constraint: "participation_requests_active_uniq"},
			wantErr: domain.ErrDuplicateRequest,
		},
		{
			name:    "capacity check",
			err:     &pq.Error{Code: "23514", Constraint: "events_capacity"},
			wantErr: domain.ErrCapacityInvariant,
		},
		{
			name:     "unknown requester",
			err:      &pq.Error{Code: "23503", Constraint: "participation_requests_requester_id_fkey"},
			wantErr:  domain.ErrNotFound,
			wantText: "user",
		},
		{
			name:     "unknown initiator",
			err:      &pq.Error{Code: "23503", Constraint: "events_initiator_id_fkey"},
			wantErr:  domain.ErrNotFound,
			wantText: "user",
		},
		{
			name:     "unknown event",
			err:      &pq.Error{Code: "23503", Constraint: "participation_requests_event_id_fkey"},
			wantErr:  domain.ErrNotFound,
			wantText: "event",
		},
		{
			name:     "malformed uuid",
			err:      &pq.Error{Code: "22P02"},
			wantErr:  domain.ErrNotFound,
			wantText: "malformed id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPQError(tt.err)
			require.ErrorIs(t, got, tt.wantErr)
			if tt.wantText != "" {
				assert.Contains(t, got.Error(), tt.wantText)
			}
		})
	}
}

func TestMapPQError_UnrelatedViolationsPassThrough(t *testing.T) {
	for _, perr := range []*pq.Error{
		{Code: "23505", Constraint: "users_email_key"},
		{Code: "23514", Constraint: "events_state_check"},
		{Code: "23514", Constraint: "participation_requests_status_check"},
		{Code: "40001"},
	} {
		got := mapPQError(perr)
		assert.Same(t, perr, got, "constraint %q", perr.Constraint)
		assert.False(t, errors.Is(got, domain.ErrConflict))
		assert.False(t, errors.Is(got, domain.ErrNotFound))
	}

	assert.Nil(t, mapPQError(nil))
	assert.Equal(t, sql.ErrConnDone, mapPQError(sql.ErrConnDone))
}
