package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/carebook/booking-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func availabilityColumnsRow() []string {
	return []string{"id", "practitioner_id", "date", "phone_from", "phone_to", "in_person_from", "in_person_to", "break_from", "break_to", "created_at", "updated_at"}
}

func testStr(val string) *string {
	return &val
}

func TestAvailabilityRepositoryGetRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows(availabilityColumnsRow()).
		AddRow("av-1", "prac-1", "2024-01-01", testStr("09:00:00"), testStr("12:00:00"), nil, nil, nil, nil, now, now).
		AddRow("av-2", "prac-1", "2024-01-02", nil, nil, testStr("13:00"), testStr("17:00"), testStr("12:00"), testStr("13:00"), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, practitioner_id, date")).
		WithArgs("prac-1", "2024-01-01", "2024-01-07").
		WillReturnRows(rows)

	records, err := repo.GetRange(context.Background(), "prac-1", "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "2024-01-01", records[0].Date)
	require.Equal(t, "09:00", records[0].Phone.From, "seconds must be trimmed")
	require.Equal(t, "12:00", records[0].Phone.To)
	require.True(t, records[0].InPerson.Empty())

	require.Equal(t, "13:00", records[1].InPerson.From)
	require.Equal(t, "12:00", records[1].Break.From)
	require.True(t, records[1].Phone.Empty())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	records := []models.DayAvailability{
		{Date: "2024-01-01", CategoryWindows: models.CategoryWindows{
			Phone: models.TimeWindow{From: "09:00", To: "12:00"},
		}},
		{Date: "2024-01-02"},
	}
	require.NoError(t, repo.ReplaceRange(context.Background(), "prac-1", records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceRangeEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)
	require.NoError(t, repo.ReplaceRange(context.Background(), "prac-1", nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceRangeRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	err := repo.ReplaceRange(context.Background(), "prac-1", []models.DayAvailability{{Date: "2024-01-01"}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
