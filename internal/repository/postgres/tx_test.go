package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventadmission/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cenkalti/backoff/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUnitOfWork(t *testing.T) (*unitOfWork, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &unitOfWork{
		DB:       db,
		maxTries: defaultMaxTries,
		newBackOff: func() backoff.BackOff {
			return &backoff.ZeroBackOff{}
		},
	}, mock
}

const lockEventSQL = `SELECT id, initiator_id, title, .* FROM events WHERE id = \$1 FOR UPDATE`

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	uow, mock := newTestUnitOfWork(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockEventSQL).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(eventColumnNames).AddRow(eventRow("ev-1", 5, 2, false, "PUBLISHED", testCreated)...))
	mock.ExpectExec(`UPDATE events`).
		WithArgs("ev-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 5,
			3, false, "PUBLISHED", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
		e, err := tx.LockEvent(ctx, "ev-1")
		if err != nil {
			return err
		}
		e.ConfirmedRequests++
		return tx.UpdateEvent(ctx, e)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RollsBackPolicyErrorsWithoutRetry(t *testing.T) {
	ctx := context.Background()
	uow, mock := newTestUnitOfWork(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockEventSQL).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(eventColumnNames).AddRow(eventRow("ev-1", 5, 5, true, "PUBLISHED", testCreated)...))
	mock.ExpectRollback()

	calls := 0
	err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
		calls++
		if _, err := tx.LockEvent(ctx, "ev-1"); err != nil {
			return err
		}
		return domain.ErrNoSlots
	})
	require.ErrorIs(t, err, domain.ErrNoSlots)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RetriesSerializationFailure(t *testing.T) {
	ctx := context.Background()
	uow, mock := newTestUnitOfWork(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockEventSQL).
		WithArgs("ev-1").
		WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectQuery(lockEventSQL).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(eventColumnNames).AddRow(eventRow("ev-1", 0, 0, true, "PUBLISHED", testCreated)...))
	mock.ExpectCommit()

	calls := 0
	err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
		calls++
		_, err := tx.LockEvent(ctx, "ev-1")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_GivesUpAfterMaxTries(t *testing.T) {
	ctx := context.Background()
	uow, mock := newTestUnitOfWork(t)

	for i := 0; i < defaultMaxTries; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(lockEventSQL).
			WithArgs("ev-1").
			WillReturnError(&pq.Error{Code: "40P01"})
		mock.ExpectRollback()
	}

	err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
		_, err := tx.LockEvent(ctx, "ev-1")
		return err
	})
	require.Error(t, err)
	var perr *pq.Error
	require.True(t, errors.As(err, &perr))
	assert.EqualValues(t, "40P01", perr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_BeginFailure(t *testing.T) {
	uow, mock := newTestUnitOfWork(t)
	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	err := uow.Atomically(context.Background(), func(ctx context.Context, tx domain.AdmissionTx) error {
		t.Fatal("fn must not run without a transaction")
		return nil
	})
	require.ErrorIs(t, err, sql.ErrConnDone)
}

func TestAdmissionTx_LockEventNotFound(t *testing.T) {
	uow, mock := newTestUnitOfWork(t)
	mock.ExpectBegin()
	mock.ExpectQuery(lockEventSQL).WithArgs("ev-x").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := uow.Atomically(context.Background(), func(ctx context.Context, tx domain.AdmissionTx) error {
		_, err := tx.LockEvent(ctx, "ev-x")
		return err
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionTx_Requests(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("find active returns nil when none", func(t *testing.T) {
		uow, mock := newTestUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`status IN \('PENDING', 'CONFIRMED'\)`).
			WithArgs("user-2", "ev-1").
			WillReturnRows(sqlmock.NewRows(requestColumnNames))
		mock.ExpectCommit()

		err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
			got, err := tx.FindActiveRequest(ctx, "user-2", "ev-1")
			require.NoError(t, err)
			require.Nil(t, got)
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create maps unique violation", func(t *testing.T) {
		uow, mock := newTestUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO participation_requests`).
			WithArgs("user-2", "ev-1", "PENDING", created).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "participation_requests_active_uniq"})
		mock.ExpectRollback()

		err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
			return tx.CreateRequest(ctx, domain.NewParticipationRequest("user-2", "ev-1", domain.RequestStatusPending, created))
		})
		require.ErrorIs(t, err, domain.ErrDuplicateRequest)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create by unknown requester is not found", func(t *testing.T) {
		uow, mock := newTestUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO participation_requests`).
			WithArgs("user-gone", "ev-1", "CONFIRMED", created).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "participation_requests_requester_id_fkey"})
		mock.ExpectRollback()

		err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
			return tx.CreateRequest(ctx, domain.NewParticipationRequest("user-gone", "ev-1", domain.RequestStatusConfirmed, created))
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "user")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("find active with malformed requester id is not found", func(t *testing.T) {
		uow, mock := newTestUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`status IN \('PENDING', 'CONFIRMED'\)`).
			WithArgs("not-a-uuid", "ev-1").
			WillReturnError(&pq.Error{Code: "22P02"})
		mock.ExpectRollback()

		err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
			_, err := tx.FindActiveRequest(ctx, "not-a-uuid", "ev-1")
			return err
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create assigns id", func(t *testing.T) {
		uow, mock := newTestUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO participation_requests`).
			WithArgs("user-2", "ev-1", "CONFIRMED", created).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("req-9"))
		mock.ExpectCommit()

		req := domain.NewParticipationRequest("user-2", "ev-1", domain.RequestStatusConfirmed, created)
		err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
			return tx.CreateRequest(ctx, req)
		})
		require.NoError(t, err)
		assert.Equal(t, "req-9", req.ID)
	})

	t.Run("lock and update a batch", func(t *testing.T) {
		uow, mock := newTestUnitOfWork(t)
		ids := []string{"req-1", "req-2"}
		mock.ExpectBegin()
		mock.ExpectQuery(`WHERE id = ANY\(\$1\)\s+ORDER BY id\s+FOR UPDATE`).
			WithArgs(pq.Array(ids)).
			WillReturnRows(sqlmock.NewRows(requestColumnNames).
				AddRow("req-1", "user-2", "ev-1", "PENDING", created).
				AddRow("req-2", "user-3", "ev-1", "PENDING", created))
		mock.ExpectExec(`UPDATE participation_requests SET status = \$1 WHERE id = ANY\(\$2\)`).
			WithArgs("CONFIRMED", pq.Array(ids)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
			reqs, err := tx.LockRequests(ctx, ids)
			if err != nil {
				return err
			}
			require.Len(t, reqs, 2)
			return tx.SetRequestStatus(ctx, ids, domain.RequestStatusConfirmed)
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("short update is an error", func(t *testing.T) {
		uow, mock := newTestUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE participation_requests`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		err := uow.Atomically(ctx, func(ctx context.Context, tx domain.AdmissionTx) error {
			return tx.SetRequestStatus(ctx, []string{"req-1", "req-2"}, domain.RequestStatusRejected)
		})
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
