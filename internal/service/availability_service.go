package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/carebook/booking-api/internal/dto"
	"github.com/carebook/booking-api/internal/models"
	"github.com/carebook/booking-api/internal/schedule"
	appErrors "github.com/carebook/booking-api/pkg/errors"
)

type availabilityRepository interface {
	GetRange(ctx context.Context, practitionerID, start, end string) ([]models.DayAvailability, error)
	ReplaceRange(ctx context.Context, practitionerID string, records []models.DayAvailability) error
}

type calendarInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SaveWeeklyRequest carries the staged weekly edits for submission.
type SaveWeeklyRequest struct {
	WeekStart string                    `json:"week_start" validate:"required,datetime=2006-01-02"`
	Days      models.WeeklyAvailability `json:"days" validate:"required"`
}

// AvailabilityService reads and replaces working-hour windows.
type AvailabilityService struct {
	repo      availabilityRepository
	cache     calendarInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(repo availabilityRepository, cache calendarInvalidator, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Get returns availability records for the day or week containing date,
// both in server shape and in the weekday-keyed editing shape.
func (s *AvailabilityService) Get(ctx context.Context, practitionerID, date, rng string) (*dto.AvailabilityResponse, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	start, end := day, day
	if rng != "day" {
		start = schedule.WeekStart(day)
		end = start.AddDate(0, 0, 6)
	}

	records, err := s.repo.GetRange(ctx, practitionerID, start.Format(models.DateLayout), end.Format(models.DateLayout))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "failed to fetch availability")
	}

	return &dto.AvailabilityResponse{
		Availability: records,
		Weekly:       schedule.ToWeekly(records),
	}, nil
}

// SaveWeekly validates every staged day and replaces the submitted week
// wholesale. Validation failures are returned before anything is written,
// and write failures preserve the staged edits for retry.
func (s *AvailabilityService) SaveWeekly(ctx context.Context, practitionerID string, req SaveWeeklyRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	for _, key := range models.WeekDays {
		day, ok := req.Days[key]
		if !ok {
			continue
		}
		if err := schedule.ValidateWindows(day.CategoryWindows); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("%s: %s", key, appErrors.FromError(err).Message))
		}
	}

	parsed, err := time.Parse(models.DateLayout, req.WeekStart)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid week start")
	}
	weekStart := schedule.WeekStart(parsed)

	payload := schedule.ToPayload(req.Days, weekStart)
	if err := s.repo.ReplaceRange(ctx, practitionerID, payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrSubmitFailed.Code, appErrors.ErrSubmitFailed.Status, "failed to save availability")
	}

	s.invalidateCalendar(ctx, practitionerID)
	return nil
}

func (s *AvailabilityService) invalidateCalendar(ctx context.Context, practitionerID string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("calendar:%s:*", practitionerID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate calendar cache", zap.String("practitioner_id", practitionerID), zap.Error(err))
	}
}
