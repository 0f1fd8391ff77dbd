package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"passin/internal/domain"
)

const (
	// uniqueViolation is the SQLSTATE Postgres reports for a UNIQUE constraint failure.
	uniqueViolation = "23505"
	// slugUniqueConstraint is the UNIQUE constraint on events.slug.
	slugUniqueConstraint = "events_slug_key"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// Create inserts the event and sets its ID. The events_slug_key constraint makes the
// insert the authoritative uniqueness check, so concurrent creators of the same slug
// get domain.ErrDuplicateSlug instead of a second row.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, slug, details, maximum_attendees, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, e.Title, e.Slug, e.Details, e.MaximumAttendees, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == slugUniqueConstraint {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, slug, details, maximum_attendees, created_at
		FROM events
		WHERE id = $1
	`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `
		SELECT id, title, slug, details, maximum_attendees, created_at
		FROM events
		WHERE slug = $1
	`
	return scanEvent(r.DB.QueryRowContext(ctx, query, slug))
}

func scanEvent(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	var detailsNull sql.NullString
	var maxNull sql.NullInt64
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &detailsNull, &maxNull, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if detailsNull.Valid {
		e.Details = &detailsNull.String
	}
	if maxNull.Valid {
		n := int(maxNull.Int64)
		e.MaximumAttendees = &n
	}
	return e, nil
}
