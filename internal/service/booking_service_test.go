package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebook/booking-api/internal/models"
	appErrors "github.com/carebook/booking-api/pkg/errors"
)

type bookingRepoStub struct {
	bookings []models.Booking
	found    *models.Booking
	findErr  error

	created     *models.Booking
	updated     *models.Booking
	cancelledID string
	cancelledAt time.Time
}

func (s *bookingRepoStub) ListRange(ctx context.Context, practitionerID, start, end string) ([]models.Booking, error) {
	return s.bookings, nil
}

func (s *bookingRepoStub) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.found, nil
}

func (s *bookingRepoStub) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = "bk-new"
	s.created = booking
	return nil
}

func (s *bookingRepoStub) Update(ctx context.Context, booking *models.Booking) error {
	s.updated = booking
	return nil
}

func (s *bookingRepoStub) Cancel(ctx context.Context, id string, at time.Time) error {
	s.cancelledID = id
	s.cancelledAt = at
	return nil
}

type availabilityReaderStub struct {
	records []models.DayAvailability
}

func (s availabilityReaderStub) GetRange(ctx context.Context, practitionerID, start, end string) ([]models.DayAvailability, error) {
	return s.records, nil
}

func morningAvailability(date string) availabilityReaderStub {
	return availabilityReaderStub{records: []models.DayAvailability{
		{Date: date, CategoryWindows: models.CategoryWindows{
			Phone: models.TimeWindow{From: "09:00", To: "12:00"},
		}},
	}}
}

func validCreateRequest() CreateBookingRequest {
	return CreateBookingRequest{
		PractitionerID: "prac-1",
		PatientName:    "Jane Doe",
		PatientPhone:   "+3112345678",
		Date:           "2024-01-01",
		StartTime:      "09:00:00",
		Length:         30,
	}
}

func TestBookingServiceCreate(t *testing.T) {
	repo := &bookingRepoStub{}
	cache := &invalidatorStub{}
	service := NewBookingService(repo, morningAvailability("2024-01-01"), cache, nil, nil)

	booking, err := service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "bk-new", booking.ID)
	assert.Equal(t, "09:00", booking.StartTime, "seconds must be trimmed")
	assert.Equal(t, models.StatusUnconfirmed, booking.Status, "status defaults to unconfirmed")
	assert.Equal(t, 30, booking.LengthMinutes)
	require.Len(t, cache.patterns, 1)
	assert.Equal(t, "calendar:prac-1:*", cache.patterns[0])
}

func TestBookingServiceCreateExplicitStatus(t *testing.T) {
	repo := &bookingRepoStub{}
	service := NewBookingService(repo, morningAvailability("2024-01-01"), nil, nil, nil)

	req := validCreateRequest()
	req.Status = "active"
	booking, err := service.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, booking.Status)
}

func TestBookingServiceCreateMisaligned(t *testing.T) {
	service := NewBookingService(&bookingRepoStub{}, morningAvailability("2024-01-01"), nil, nil, nil)

	req := validCreateRequest()
	req.StartTime = "09:10"
	_, err := service.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validCreateRequest()
	req.Length = 20
	_, err = service.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceCreateOutsideHours(t *testing.T) {
	service := NewBookingService(&bookingRepoStub{}, morningAvailability("2024-01-01"), nil, nil, nil)

	req := validCreateRequest()
	req.StartTime = "14:00"
	_, err := service.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceCreateWithoutHeadroom(t *testing.T) {
	// The booking starts inside the window but its last slice would run past
	// the envelope end.
	service := NewBookingService(&bookingRepoStub{}, morningAvailability("2024-01-01"), nil, nil, nil)

	req := validCreateRequest()
	req.StartTime = "11:45"
	req.Length = 30
	_, err := service.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceCreateConflict(t *testing.T) {
	repo := &bookingRepoStub{bookings: []models.Booking{
		{ID: "bk-1", Date: "2024-01-01", StartTime: "09:00", LengthMinutes: 30, Status: models.StatusActive},
	}}
	service := NewBookingService(repo, morningAvailability("2024-01-01"), nil, nil, nil)

	req := validCreateRequest()
	req.StartTime = "09:15"
	_, err := service.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceCreateIgnoresCancelledConflicts(t *testing.T) {
	repo := &bookingRepoStub{bookings: []models.Booking{
		{ID: "bk-1", Date: "2024-01-01", StartTime: "09:00", LengthMinutes: 30, Status: models.StatusCancelled},
	}}
	service := NewBookingService(repo, morningAvailability("2024-01-01"), nil, nil, nil)

	_, err := service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
}

func TestBookingServiceUpdate(t *testing.T) {
	existing := &models.Booking{
		ID: "bk-1", PractitionerID: "prac-1", Date: "2024-01-01",
		StartTime: "09:00", LengthMinutes: 30, Status: models.StatusUnconfirmed,
	}
	repo := &bookingRepoStub{
		found:    existing,
		bookings: []models.Booking{*existing},
	}
	service := NewBookingService(repo, morningAvailability("2024-01-01"), nil, nil, nil)

	// Moving the booking within its own old interval must not conflict with
	// itself.
	booking, err := service.Update(context.Background(), "bk-1", UpdateBookingRequest{
		PatientName:  "Jane Doe",
		PatientPhone: "+3112345678",
		Date:         "2024-01-01",
		StartTime:    "09:15",
		Length:       30,
		Status:       "active",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:15", booking.StartTime)
	assert.Equal(t, models.StatusActive, booking.Status)
	require.NotNil(t, repo.updated)
}

func TestBookingServiceUpdateNotFound(t *testing.T) {
	repo := &bookingRepoStub{findErr: sql.ErrNoRows}
	service := NewBookingService(repo, morningAvailability("2024-01-01"), nil, nil, nil)

	_, err := service.Update(context.Background(), "missing", UpdateBookingRequest{
		PatientName:  "Jane Doe",
		PatientPhone: "+3112345678",
		Date:         "2024-01-01",
		StartTime:    "09:00",
		Length:       30,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceUpdateCancelled(t *testing.T) {
	repo := &bookingRepoStub{found: &models.Booking{ID: "bk-1", Status: models.StatusCancelled}}
	service := NewBookingService(repo, morningAvailability("2024-01-01"), nil, nil, nil)

	_, err := service.Update(context.Background(), "bk-1", UpdateBookingRequest{
		PatientName:  "Jane Doe",
		PatientPhone: "+3112345678",
		Date:         "2024-01-01",
		StartTime:    "09:00",
		Length:       30,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceCancel(t *testing.T) {
	repo := &bookingRepoStub{found: &models.Booking{ID: "bk-1", PractitionerID: "prac-1", Status: models.StatusActive}}
	cache := &invalidatorStub{}
	service := NewBookingService(repo, morningAvailability("2024-01-01"), cache, nil, nil)

	fixed := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	require.NoError(t, service.Cancel(context.Background(), "bk-1"))
	assert.Equal(t, "bk-1", repo.cancelledID)
	assert.Equal(t, fixed, repo.cancelledAt)
	require.Len(t, cache.patterns, 1)
}

func TestBookingServiceCancelAlreadyCancelled(t *testing.T) {
	repo := &bookingRepoStub{found: &models.Booking{ID: "bk-1", Status: models.StatusCancelled}}
	service := NewBookingService(repo, morningAvailability("2024-01-01"), nil, nil, nil)

	err := service.Cancel(context.Background(), "bk-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
