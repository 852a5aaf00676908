package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/carebook/booking-api/internal/models"
)

// AvailabilityRepository persists per-day working-hour windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetRange returns the availability records for a practitioner between two
// dates inclusive, ordered by date.
func (r *AvailabilityRepository) GetRange(ctx context.Context, practitionerID, start, end string) ([]models.DayAvailability, error) {
	const query = `SELECT id, practitioner_id, date, phone_from, phone_to, in_person_from, in_person_to, break_from, break_to, created_at, updated_at
FROM availability WHERE practitioner_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`
	var rows []models.AvailabilityRecord
	if err := r.db.SelectContext(ctx, &rows, query, practitionerID, start, end); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}

	records := make([]models.DayAvailability, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordToDay(row))
	}
	return records, nil
}

// ReplaceRange saves availability the only way the model allows: the rows
// for the submitted dates are removed and rewritten wholesale, never
// partially patched.
func (r *AvailabilityRepository) ReplaceRange(ctx context.Context, practitionerID string, records []models.DayAvailability) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin availability replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	dates := make([]string, 0, len(records))
	for _, rec := range records {
		dates = append(dates, rec.Date)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM availability WHERE practitioner_id = $1 AND date = ANY($2)",
		practitionerID, pq.Array(dates),
	); err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}

	const insert = `INSERT INTO availability (id, practitioner_id, date, phone_from, phone_to, in_person_from, in_person_to, break_from, break_to, created_at, updated_at)
VALUES (:id, :practitioner_id, :date, :phone_from, :phone_to, :in_person_from, :in_person_to, :break_from, :break_to, :created_at, :updated_at)`
	now := time.Now().UTC()
	for _, rec := range records {
		row := dayToRecord(practitionerID, rec, now)
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("insert availability for %s: %w", rec.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit availability replace: %w", err)
	}
	return nil
}

func recordToDay(row models.AvailabilityRecord) models.DayAvailability {
	day := models.DayAvailability{Date: row.Date}
	day.Phone = windowFromColumns(row.PhoneFrom, row.PhoneTo)
	day.InPerson = windowFromColumns(row.InPersonFrom, row.InPersonTo)
	day.Break = windowFromColumns(row.BreakFrom, row.BreakTo)
	return day
}

func dayToRecord(practitionerID string, day models.DayAvailability, now time.Time) models.AvailabilityRecord {
	normalized := day.CategoryWindows.Normalized()
	return models.AvailabilityRecord{
		ID:             uuid.NewString(),
		PractitionerID: practitionerID,
		Date:           day.Date,
		PhoneFrom:      columnFromBound(normalized.Phone.From),
		PhoneTo:        columnFromBound(normalized.Phone.To),
		InPersonFrom:   columnFromBound(normalized.InPerson.From),
		InPersonTo:     columnFromBound(normalized.InPerson.To),
		BreakFrom:      columnFromBound(normalized.Break.From),
		BreakTo:        columnFromBound(normalized.Break.To),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func windowFromColumns(from, to *string) models.TimeWindow {
	w := models.TimeWindow{}
	if from != nil {
		w.From = *from
	}
	if to != nil {
		w.To = *to
	}
	return w.Normalized()
}

// columnFromBound stores empty bounds as NULL, never as empty strings.
func columnFromBound(bound string) *string {
	if bound == "" {
		return nil
	}
	return &bound
}
