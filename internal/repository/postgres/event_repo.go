package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"venha/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `id, host_id, slug, title, description, event_date, start_time, end_time,
		address_cep, address_full, latitude, longitude, allow_modifications, allow_cancellations, created_at`

func scanEvent(row interface {
	Scan(dest ...any) error
}) (*domain.Event, error) {
	e := &domain.Event{}
	var endTime sql.NullString
	var lat, lng sql.NullFloat64
	err := row.Scan(
		&e.ID, &e.HostID, &e.Slug, &e.Title, &e.Description, &e.EventDate, &e.StartTime, &endTime,
		&e.AddressCEP, &e.AddressFull, &lat, &lng, &e.AllowModifications, &e.AllowCancellations, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		e.EndTime = &endTime.String
	}
	if lat.Valid {
		e.Latitude = &lat.Float64
	}
	if lng.Valid {
		e.Longitude = &lng.Float64
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (host_id, slug, title, description, event_date, start_time, end_time,
			address_cep, address_full, latitude, longitude, allow_modifications, allow_cancellations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.HostID, e.Slug, e.Title, e.Description, e.EventDate, e.StartTime, e.EndTime,
		e.AddressCEP, e.AddressFull, e.Latitude, e.Longitude, e.AllowModifications, e.AllowCancellations, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByHostID(ctx context.Context, hostID string) ([]*domain.EventSummary, error) {
	// Aggregates count confirmed attendees only; cancelled rows keep their
	// uniqueness slot but never show up in totals.
	query := `
		SELECT e.id, e.host_id, e.slug, e.title, e.description, e.event_date, e.start_time, e.end_time,
			e.address_cep, e.address_full, e.latitude, e.longitude, e.allow_modifications, e.allow_cancellations, e.created_at,
			COUNT(a.id) FILTER (WHERE a.status = 'confirmed') AS attendee_count,
			COALESCE(SUM(a.num_adults) FILTER (WHERE a.status = 'confirmed'), 0) AS total_adults,
			COALESCE(SUM(a.num_children) FILTER (WHERE a.status = 'confirmed'), 0) AS total_children
		FROM events e
		LEFT JOIN attendees a ON a.event_id = e.id
		WHERE e.host_id = $1
		GROUP BY e.id
		ORDER BY e.event_date DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.EventSummary
	for rows.Next() {
		s := &domain.EventSummary{}
		var endTime sql.NullString
		var lat, lng sql.NullFloat64
		if err := rows.Scan(
			&s.ID, &s.HostID, &s.Slug, &s.Title, &s.Description, &s.EventDate, &s.StartTime, &endTime,
			&s.AddressCEP, &s.AddressFull, &lat, &lng, &s.AllowModifications, &s.AllowCancellations, &s.CreatedAt,
			&s.AttendeeCount, &s.TotalAdults, &s.TotalChildren,
		); err != nil {
			return nil, err
		}
		if endTime.Valid {
			s.EndTime = &endTime.String
		}
		if lat.Valid {
			s.Latitude = &lat.Float64
		}
		if lng.Valid {
			s.Longitude = &lng.Float64
		}
		summaries = append(summaries, s)
	}
	if summaries == nil {
		summaries = []*domain.EventSummary{}
	}
	return summaries, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, event_date = $4, start_time = $5, end_time = $6,
			address_cep = $7, address_full = $8, latitude = $9, longitude = $10,
			allow_modifications = $11, allow_cancellations = $12
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.EventDate, e.StartTime, e.EndTime,
		e.AddressCEP, e.AddressFull, e.Latitude, e.Longitude,
		e.AllowModifications, e.AllowCancellations,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteWithAttendees deletes the event's attendees and then the event in one
// transaction; either both happen or neither does.
func (r *eventRepository) DeleteWithAttendees(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendees WHERE event_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}
