package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventadmission/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

const eventColumns = `id, initiator_id, title, annotation, description, category_id, event_date,
		location_lat, location_lon, paid, participant_limit, confirmed_requests, request_moderation,
		state, review_requested, created_on, published_on`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (initiator_id, title, annotation, description, category_id, event_date,
			location_lat, location_lon, paid, participant_limit, confirmed_requests, request_moderation,
			state, review_requested, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.InitiatorID, e.Title, e.Annotation, e.Description, e.CategoryID, e.EventDate,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.ConfirmedRequests, e.RequestModeration,
		string(e.State), e.ReviewRequested, e.CreatedOn,
	).Scan(&e.ID)
	return mapPQError(err)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return getEvent(ctx, r.DB, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func getEvent(ctx context.Context, q querier, query, id string) (*domain.Event, error) {
	e, err := scanEvent(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapPQError(err)
	}
	return e, nil
}

func scanEvent(row scanner) (*domain.Event, error) {
	e := &domain.Event{}
	var state string
	var publishedNull sql.NullTime
	err := row.Scan(
		&e.ID, &e.InitiatorID, &e.Title, &e.Annotation, &e.Description, &e.CategoryID, &e.EventDate,
		&e.Location.Lat, &e.Location.Lon, &e.Paid, &e.ParticipantLimit, &e.ConfirmedRequests, &e.RequestModeration,
		&state, &e.ReviewRequested, &e.CreatedOn, &publishedNull,
	)
	if err != nil {
		return nil, err
	}
	e.State = domain.EventState(state)
	if publishedNull.Valid {
		t := publishedNull.Time
		e.PublishedOn = &t
	}
	return e, nil
}
