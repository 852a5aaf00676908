package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carebook/booking-api/internal/models"
)

const bookingColumns = `id, practitioner_id, patient_name, patient_phone, patient_email, reason_for_call, date, start_time, length_minutes, status, created_at, updated_at, cancelled_at`

// BookingRepository persists patient appointments.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ListRange returns bookings for a practitioner between two dates inclusive,
// ordered by date and start time.
func (r *BookingRepository) ListRange(ctx context.Context, practitionerID, start, end string) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings
WHERE practitioner_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC, start_time ASC`, bookingColumns)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, practitionerID, start, end); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// FindByID fetches a single booking.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE id = $1", bookingColumns)
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create inserts a booking.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	const query = `INSERT INTO bookings (id, practitioner_id, patient_name, patient_phone, patient_email, reason_for_call, date, start_time, length_minutes, status, created_at, updated_at)
VALUES (:id, :practitioner_id, :patient_name, :patient_phone, :patient_email, :reason_for_call, :date, :start_time, :length_minutes, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// Update rewrites a booking's mutable fields.
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now().UTC()
	const query = `UPDATE bookings SET patient_name = :patient_name, patient_phone = :patient_phone, patient_email = :patient_email,
reason_for_call = :reason_for_call, date = :date, start_time = :start_time, length_minutes = :length_minutes, status = :status, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return nil
}

// Cancel marks a booking cancelled; bookings are never hard-deleted.
func (r *BookingRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE bookings SET status = $2, cancelled_at = $3, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.StatusCancelled, at); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	return nil
}
