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

func attendeeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "event_id", "whatsapp_number", "name", "family_member_names",
		"num_adults", "num_children", "comments", "status", "rsvp_date", "last_modified",
	})
}

func TestAttendeeRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO attendees`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("att-uuid-1"))

		repo := NewAttendeeRepository(db)
		a := &domain.Attendee{
			EventID:           "ev-1",
			WhatsAppNumber:    "+5511988887777",
			Name:              "Bruno",
			FamilyMemberNames: []string{"Clara"},
			NumAdults:         2,
			Status:            domain.StatusConfirmed,
			RSVPDate:          time.Now(),
			LastModified:      time.Now(),
		}
		require.NoError(t, repo.Create(ctx, a))
		require.Equal(t, "att-uuid-1", a.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate number for event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO attendees`).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewAttendeeRepository(db)
		err = repo.Create(ctx, &domain.Attendee{EventID: "ev-1", WhatsAppNumber: "+5511988887777", Name: "Bruno", NumAdults: 1})
		require.ErrorIs(t, err, domain.ErrDuplicateRSVP)
	})
}

func TestAttendeeRepository_GetByEventAndNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rsvpAt := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`FROM attendees WHERE event_id = \$1 AND whatsapp_number = \$2`).
			WithArgs("ev-1", "+5511988887777").
			WillReturnRows(attendeeRows().AddRow(
				"att-1", "ev-1", "+5511988887777", "Bruno", pq.Array([]string{"Clara", "Davi"}),
				2, 1, "", string(domain.StatusConfirmed), rsvpAt, rsvpAt,
			))

		repo := NewAttendeeRepository(db)
		a, err := repo.GetByEventAndNumber(ctx, "ev-1", "+5511988887777")
		require.NoError(t, err)
		require.Equal(t, "att-1", a.ID)
		require.Equal(t, []string{"Clara", "Davi"}, a.FamilyMemberNames)
		require.Equal(t, domain.StatusConfirmed, a.Status)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM attendees WHERE event_id = \$1 AND whatsapp_number = \$2`).
			WithArgs("ev-1", "+0000").
			WillReturnError(sql.ErrNoRows)

		repo := NewAttendeeRepository(db)
		_, err = repo.GetByEventAndNumber(ctx, "ev-1", "+0000")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAttendeeRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()

	t.Run("nil family list scans as empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rsvpAt := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`FROM attendees WHERE event_id = \$1 ORDER BY rsvp_date`).
			WithArgs("ev-1").
			WillReturnRows(attendeeRows().AddRow(
				"att-1", "ev-1", "+5511988887777", "Bruno", nil,
				1, 0, "", string(domain.StatusCancelled), rsvpAt, rsvpAt,
			))

		repo := NewAttendeeRepository(db)
		attendees, err := repo.ListByEventID(ctx, "ev-1")
		require.NoError(t, err)
		require.Len(t, attendees, 1)
		require.NotNil(t, attendees[0].FamilyMemberNames)
		require.Empty(t, attendees[0].FamilyMemberNames)
	})

	t.Run("no attendees yields empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM attendees WHERE event_id = \$1 ORDER BY rsvp_date`).
			WithArgs("ev-2").
			WillReturnRows(attendeeRows())

		repo := NewAttendeeRepository(db)
		attendees, err := repo.ListByEventID(ctx, "ev-2")
		require.NoError(t, err)
		require.NotNil(t, attendees)
		require.Empty(t, attendees)
	})
}

func TestAttendeeRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown attendee", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE attendees`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewAttendeeRepository(db)
		err = repo.Update(ctx, &domain.Attendee{ID: "missing", Name: "x", NumAdults: 1})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAttendeeRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM attendees WHERE id = \$1`).
			WithArgs("att-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewAttendeeRepository(db)
		require.NoError(t, repo.Delete(ctx, "att-1"))
	})

	t.Run("unknown attendee", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM attendees WHERE id = \$1`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewAttendeeRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrNotFound)
	})
}
