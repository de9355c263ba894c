package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventadmission/internal/domain"

	"github.com/cenkalti/backoff/v5"
	"github.com/lib/pq"
)

const defaultMaxTries = 3

type unitOfWork struct {
	DB         *sql.DB
	maxTries   uint
	newBackOff func() backoff.BackOff
}

// NewUnitOfWork returns a UnitOfWork backed by Postgres transactions.
// Transactions aborted by a serialization failure or a deadlock are retried.
func NewUnitOfWork(db *sql.DB) domain.UnitOfWork {
	return &unitOfWork{
		DB:       db,
		maxTries: defaultMaxTries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

func (u *unitOfWork) Atomically(ctx context.Context, fn func(ctx context.Context, tx domain.AdmissionTx) error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := u.run(ctx, fn)
		if err == nil || retryable(err) {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(u.newBackOff()), backoff.WithMaxTries(u.maxTries))
	return err
}

func (u *unitOfWork) run(ctx context.Context, fn func(ctx context.Context, tx domain.AdmissionTx) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &admissionTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", mapPQError(err))
	}
	return nil
}

// admissionTx implements domain.AdmissionTx on one open transaction.
type admissionTx struct {
	tx *sql.Tx
}

func (t *admissionTx) LockEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	e, err := getEvent(ctx, t.tx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lock event: %w", err)
	}
	return e, err
}

func (t *admissionTx) UpdateEvent(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, annotation = $3, description = $4, category_id = $5, event_date = $6,
			location_lat = $7, location_lon = $8, paid = $9, participant_limit = $10,
			confirmed_requests = $11, request_moderation = $12, state = $13, review_requested = $14,
			published_on = $15
		WHERE id = $1
	`
	result, err := t.tx.ExecContext(ctx, query,
		e.ID, e.Title, e.Annotation, e.Description, e.CategoryID, e.EventDate,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit,
		e.ConfirmedRequests, e.RequestModeration, string(e.State), e.ReviewRequested,
		e.PublishedOn,
	)
	if err != nil {
		return mapPQError(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *admissionTx) FindActiveRequest(ctx context.Context, requesterID, eventID string) (*domain.ParticipationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM participation_requests
		WHERE requester_id = $1 AND event_id = $2 AND status IN ('PENDING', 'CONFIRMED')
		LIMIT 1
	`
	req, err := scanRequest(t.tx.QueryRowContext(ctx, query, requesterID, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err := mapPQError(err); errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find active request: %w", err)
	}
	return req, nil
}

func (t *admissionTx) CreateRequest(ctx context.Context, req *domain.ParticipationRequest) error {
	query := `
		INSERT INTO participation_requests (requester_id, event_id, status, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := t.tx.QueryRowContext(ctx, query, req.RequesterID, req.EventID, string(req.Status), req.Created).Scan(&req.ID)
	return mapPQError(err)
}

func (t *admissionTx) LockRequests(ctx context.Context, ids []string) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM participation_requests
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`
	reqs, err := listRequests(ctx, t.tx, query, pq.Array(ids))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lock requests: %w", err)
	}
	return reqs, nil
}

func (t *admissionTx) SetRequestStatus(ctx context.Context, ids []string, status domain.RequestStatus) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := t.tx.ExecContext(ctx,
		`UPDATE participation_requests SET status = $1 WHERE id = ANY($2)`,
		string(status), pq.Array(ids))
	if err != nil {
		return mapPQError(err)
	}
	rows, _ := result.RowsAffected()
	if rows != int64(len(ids)) {
		return fmt.Errorf("set request status: updated %d of %d rows", rows, len(ids))
	}
	return nil
}
