package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/carebook/booking-api/internal/models"
	"github.com/carebook/booking-api/internal/schedule"
	appErrors "github.com/carebook/booking-api/pkg/errors"
)

type bookingRepository interface {
	ListRange(ctx context.Context, practitionerID, start, end string) ([]models.Booking, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
	Cancel(ctx context.Context, id string, at time.Time) error
}

type availabilityReader interface {
	GetRange(ctx context.Context, practitionerID, start, end string) ([]models.DayAvailability, error)
}

// CreateBookingRequest describes the payload for creating a booking.
type CreateBookingRequest struct {
	PractitionerID string `json:"practitioner_id" validate:"required"`
	PatientName    string `json:"patient_name" validate:"required"`
	PatientPhone   string `json:"patient_phone" validate:"required"`
	PatientEmail   string `json:"patient_email" validate:"omitempty,email"`
	ReasonForCall  string `json:"reason_for_call"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time" validate:"required"`
	Length         int    `json:"length" validate:"required,min=15"`
	Status         string `json:"status" validate:"omitempty,oneof=active unconfirmed"`
}

// UpdateBookingRequest rewrites an existing booking.
type UpdateBookingRequest struct {
	PatientName   string `json:"patient_name" validate:"required"`
	PatientPhone  string `json:"patient_phone" validate:"required"`
	PatientEmail  string `json:"patient_email" validate:"omitempty,email"`
	ReasonForCall string `json:"reason_for_call"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" validate:"required"`
	Length        int    `json:"length" validate:"required,min=15"`
	Status        string `json:"status" validate:"omitempty,oneof=active unconfirmed"`
}

// BookingService coordinates appointment creation, edits, and cancellation
// against the derived slot grid.
type BookingService struct {
	repo         bookingRepository
	availability availabilityReader
	cache        calendarInvalidator
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewBookingService constructs a BookingService.
func NewBookingService(repo bookingRepository, availability availabilityReader, cache calendarInvalidator, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		repo:         repo,
		availability: availability,
		cache:        cache,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns bookings in the filter's date range.
func (s *BookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	bookings, err := s.repo.ListRange(ctx, filter.PractitionerID, filter.Start, filter.End)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "failed to fetch bookings")
	}
	return bookings, nil
}

// Create books an appointment on an enabled slot.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	startTime, err := s.checkSlot(ctx, req.PractitionerID, req.Date, req.StartTime, req.Length, "")
	if err != nil {
		return nil, err
	}

	status := models.StatusUnconfirmed
	if req.Status != "" {
		status, _ = models.ParseBookingStatus(req.Status)
	}

	booking := &models.Booking{
		PractitionerID: req.PractitionerID,
		PatientName:    req.PatientName,
		PatientPhone:   req.PatientPhone,
		PatientEmail:   req.PatientEmail,
		ReasonForCall:  req.ReasonForCall,
		Date:           req.Date,
		StartTime:      startTime,
		LengthMinutes:  req.Length,
		Status:         status,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSubmitFailed.Code, appErrors.ErrSubmitFailed.Status, "failed to create booking")
	}

	s.invalidateCalendar(ctx, req.PractitionerID)
	return booking, nil
}

// Update rewrites a booking. Cancelled bookings cannot be edited.
func (s *BookingService) Update(ctx context.Context, id string, req UpdateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch booking")
	}
	if booking.Status == models.StatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "cancelled bookings cannot be edited")
	}

	startTime, err := s.checkSlot(ctx, booking.PractitionerID, req.Date, req.StartTime, req.Length, booking.ID)
	if err != nil {
		return nil, err
	}

	booking.PatientName = req.PatientName
	booking.PatientPhone = req.PatientPhone
	booking.PatientEmail = req.PatientEmail
	booking.ReasonForCall = req.ReasonForCall
	booking.Date = req.Date
	booking.StartTime = startTime
	booking.LengthMinutes = req.Length
	if req.Status != "" {
		booking.Status, _ = models.ParseBookingStatus(req.Status)
	}

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSubmitFailed.Code, appErrors.ErrSubmitFailed.Status, "failed to update booking")
	}

	s.invalidateCalendar(ctx, booking.PractitionerID)
	return booking, nil
}

// Cancel marks a booking cancelled.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch booking")
	}
	if booking.Status == models.StatusCancelled {
		return appErrors.Clone(appErrors.ErrConflict, "booking is already cancelled")
	}

	if err := s.repo.Cancel(ctx, id, s.now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrSubmitFailed.Code, appErrors.ErrSubmitFailed.Status, "failed to cancel booking")
	}

	s.invalidateCalendar(ctx, booking.PractitionerID)
	return nil
}

// checkSlot verifies the requested interval sits on the 15-minute grid,
// inside the day's enabled envelope, and clear of live bookings. It returns
// the normalized start time. excludeID skips the booking being edited during
// conflict detection.
func (s *BookingService) checkSlot(ctx context.Context, practitionerID, date, start string, length int, excludeID string) (string, error) {
	startTime, err := schedule.NormalizeClock(start)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid start time")
	}
	startMinutes, ok := schedule.GridAligned(startTime)
	if !ok || length%schedule.SlotMinutes != 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "bookings must align to the 15-minute grid")
	}

	records, err := s.availability.GetRange(ctx, practitionerID, date, date)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "failed to fetch availability")
	}
	var day *models.DayAvailability
	for i := range records {
		if records[i].Date == date {
			day = &records[i]
			break
		}
	}

	slots := schedule.GenerateSlots(day)
	enabled := make(map[string]bool, len(slots))
	for _, slot := range slots {
		enabled[slot.Time] = !slot.IsDisabled
	}
	for m := startMinutes; m < startMinutes+length; m += schedule.SlotMinutes {
		if !enabled[schedule.ClockAt(m)] {
			return "", appErrors.Clone(appErrors.ErrSlotUnavailable, fmt.Sprintf("slot %s is not bookable", schedule.ClockAt(m)))
		}
	}

	existing, err := s.repo.ListRange(ctx, practitionerID, date, date)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "failed to fetch bookings")
	}
	for _, other := range existing {
		if other.ID == excludeID || other.Status == models.StatusCancelled {
			continue
		}
		otherStart, err := schedule.ClockMinutes(other.StartTime)
		if err != nil {
			continue
		}
		if startMinutes < otherStart+other.LengthMinutes && otherStart < startMinutes+length {
			return "", appErrors.Clone(appErrors.ErrConflict, "time conflicts with an existing booking")
		}
	}

	return startTime, nil
}

func (s *BookingService) invalidateCalendar(ctx context.Context, practitionerID string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("calendar:%s:*", practitionerID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate calendar cache", zap.String("practitioner_id", practitionerID), zap.Error(err))
	}
}
