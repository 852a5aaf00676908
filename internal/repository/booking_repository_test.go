package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/carebook/booking-api/internal/models"
)

func bookingColumnsRow() []string {
	return []string{"id", "practitioner_id", "patient_name", "patient_phone", "patient_email", "reason_for_call", "date", "start_time", "length_minutes", "status", "created_at", "updated_at", "cancelled_at"}
}

func TestBookingRepositoryListRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows(bookingColumnsRow()).
		AddRow("bk-1", "prac-1", "Jane Doe", "+3112345678", "jane@example.com", "checkup", "2024-01-01", "09:00", 30, int(models.StatusActive), now, now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, practitioner_id, patient_name")).
		WithArgs("prac-1", "2024-01-01", "2024-01-07").
		WillReturnRows(rows)

	bookings, err := repo.ListRange(context.Background(), "prac-1", "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.Equal(t, "bk-1", bookings[0].ID)
	require.Equal(t, models.StatusActive, bookings[0].Status)
	require.Equal(t, 30, bookings[0].LengthMinutes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, practitioner_id, patient_name")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	booking := &models.Booking{
		PractitionerID: "prac-1",
		PatientName:    "Jane Doe",
		Date:           "2024-01-01",
		StartTime:      "09:00",
		LengthMinutes:  30,
		Status:         models.StatusUnconfirmed,
	}
	require.NoError(t, repo.Create(context.Background(), booking))
	require.NotEmpty(t, booking.ID, "id must be assigned on insert")
	require.False(t, booking.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET patient_name")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	booking := &models.Booking{ID: "bk-1", PatientName: "Jane Doe", Date: "2024-01-01", StartTime: "10:00", LengthMinutes: 45, Status: models.StatusActive}
	require.NoError(t, repo.Update(context.Background(), booking))
	require.False(t, booking.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCancel(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	at := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $2, cancelled_at = $3")).
		WithArgs("bk-1", models.StatusCancelled, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), "bk-1", at))
	require.NoError(t, mock.ExpectationsWereMet())
}
