package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"venha/internal/domain"
)

// uniqueViolation is the Postgres error code for unique-constraint violations.
const uniqueViolation = "23505"

type hostRepository struct {
	DB *sql.DB
}

func NewHostRepository(db *sql.DB) domain.HostRepository {
	return &hostRepository{DB: db}
}

func (r *hostRepository) Create(ctx context.Context, h *domain.Host) error {
	query := `
		INSERT INTO hosts (email, name, whatsapp_number, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, h.Email, h.Name, h.WhatsAppNumber, h.PasswordHash, h.CreatedAt).Scan(&h.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *hostRepository) GetByEmail(ctx context.Context, email string) (*domain.Host, error) {
	query := `
		SELECT id, email, name, whatsapp_number, password_hash, created_at
		FROM hosts
		WHERE email = $1
	`
	h := &domain.Host{}
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&h.ID, &h.Email, &h.Name, &h.WhatsAppNumber, &h.PasswordHash, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHostNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *hostRepository) GetByID(ctx context.Context, id string) (*domain.Host, error) {
	query := `
		SELECT id, email, name, whatsapp_number, password_hash, created_at
		FROM hosts
		WHERE id = $1
	`
	h := &domain.Host{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&h.ID, &h.Email, &h.Name, &h.WhatsAppNumber, &h.PasswordHash, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHostNotFound
		}
		return nil, err
	}
	return h, nil
}

// Delete removes the host and everything it owns: attendees of its events,
// the events, its sessions, and finally the host row, all in one transaction.
func (r *hostRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM attendees
		WHERE event_id IN (SELECT id FROM events WHERE host_id = $1)
	`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE host_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE host_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM hosts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrHostNotFound
	}
	return tx.Commit()
}
