package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"venha/internal/domain"
)

type attendeeRepository struct {
	DB *sql.DB
}

func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{DB: db}
}

const attendeeColumns = `id, event_id, whatsapp_number, name, family_member_names,
		num_adults, num_children, comments, status, rsvp_date, last_modified`

func scanAttendee(row interface {
	Scan(dest ...any) error
}) (*domain.Attendee, error) {
	a := &domain.Attendee{}
	err := row.Scan(
		&a.ID, &a.EventID, &a.WhatsAppNumber, &a.Name, pq.Array(&a.FamilyMemberNames),
		&a.NumAdults, &a.NumChildren, &a.Comments, &a.Status, &a.RSVPDate, &a.LastModified,
	)
	if err != nil {
		return nil, err
	}
	if a.FamilyMemberNames == nil {
		a.FamilyMemberNames = []string{}
	}
	return a, nil
}

func (r *attendeeRepository) Create(ctx context.Context, a *domain.Attendee) error {
	query := `
		INSERT INTO attendees (event_id, whatsapp_number, name, family_member_names,
			num_adults, num_children, comments, status, rsvp_date, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.EventID, a.WhatsAppNumber, a.Name, pq.Array(a.FamilyMemberNames),
		a.NumAdults, a.NumChildren, a.Comments, a.Status, a.RSVPDate, a.LastModified,
	).Scan(&a.ID)
	if err != nil {
		// The unique constraint on (event_id, whatsapp_number) is the backstop
		// against two identical RSVPs racing past the application pre-check.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateRSVP
		}
		return err
	}
	return nil
}

func (r *attendeeRepository) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE id = $1`
	a, err := scanAttendee(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *attendeeRepository) GetByEventAndNumber(ctx context.Context, eventID, whatsappNumber string) (*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE event_id = $1 AND whatsapp_number = $2`
	a, err := scanAttendee(r.DB.QueryRowContext(ctx, query, eventID, whatsappNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *attendeeRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE event_id = $1 ORDER BY rsvp_date`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []*domain.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	if attendees == nil {
		attendees = []*domain.Attendee{}
	}
	return attendees, rows.Err()
}

func (r *attendeeRepository) Update(ctx context.Context, a *domain.Attendee) error {
	query := `
		UPDATE attendees
		SET name = $2, family_member_names = $3, num_adults = $4, num_children = $5,
			comments = $6, status = $7, last_modified = $8
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		a.ID, a.Name, pq.Array(a.FamilyMemberNames), a.NumAdults, a.NumChildren,
		a.Comments, a.Status, a.LastModified,
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

func (r *attendeeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM attendees WHERE id = $1`, id)
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
