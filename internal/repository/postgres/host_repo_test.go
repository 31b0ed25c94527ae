package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"venha/internal/domain"
)

func TestHostRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		host    *domain.Host
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "success",
			host: &domain.Host{
				Email:          "ana@example.com",
				Name:           "Ana",
				WhatsAppNumber: "+5511999990000",
				PasswordHash:   "hash",
				CreatedAt:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO hosts \(email, name, whatsapp_number, password_hash, created_at\)`).
					WithArgs("ana@example.com", "Ana", "+5511999990000", "hash", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("host-uuid-1"))
			},
			wantID: "host-uuid-1",
		},
		{
			name: "duplicate email",
			host: &domain.Host{Email: "ana@example.com", Name: "Ana", WhatsAppNumber: "1", PasswordHash: "h", CreatedAt: time.Now()},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO hosts`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewHostRepository(db)
			err = repo.Create(ctx, tt.host)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.host.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHostRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT id, email, name, whatsapp_number, password_hash, created_at`).
			WithArgs("ana@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "whatsapp_number", "password_hash", "created_at"}).
				AddRow("host-1", "ana@example.com", "Ana", "+5511999990000", "hash", created))

		repo := NewHostRepository(db)
		h, err := repo.GetByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		require.Equal(t, "host-1", h.ID)
		require.Equal(t, "Ana", h.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, email, name, whatsapp_number, password_hash, created_at`).
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewHostRepository(db)
		_, err = repo.GetByEmail(ctx, "missing@example.com")
		require.ErrorIs(t, err, domain.ErrHostNotFound)
	})
}

func TestHostRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes attendees, events, sessions, host in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM attendees`).
			WithArgs("host-1").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`DELETE FROM events WHERE host_id = \$1`).
			WithArgs("host-1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM sessions WHERE host_id = \$1`).
			WithArgs("host-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM hosts WHERE id = \$1`).
			WithArgs("host-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewHostRepository(db)
		require.NoError(t, repo.Delete(ctx, "host-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown host rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM attendees`).
			WithArgs("nope").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM events WHERE host_id = \$1`).
			WithArgs("nope").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM sessions WHERE host_id = \$1`).
			WithArgs("nope").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM hosts WHERE id = \$1`).
			WithArgs("nope").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := NewHostRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "nope"), domain.ErrHostNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
