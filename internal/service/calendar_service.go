package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/carebook/booking-api/internal/dto"
	"github.com/carebook/booking-api/internal/models"
	"github.com/carebook/booking-api/internal/schedule"
	appErrors "github.com/carebook/booking-api/pkg/errors"
	"github.com/carebook/booking-api/pkg/export"
)

type weekCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// availabilitySourceAdapter bridges the repository onto the controller's
// collaborator contract.
type availabilitySourceAdapter struct {
	repo availabilityReader
}

func (a availabilitySourceAdapter) FetchAvailability(ctx context.Context, practitionerID string, start, end time.Time) ([]models.DayAvailability, error) {
	return a.repo.GetRange(ctx, practitionerID, start.Format(models.DateLayout), end.Format(models.DateLayout))
}

type bookingLister interface {
	ListRange(ctx context.Context, practitionerID, start, end string) ([]models.Booking, error)
}

type bookingSourceAdapter struct {
	repo bookingLister
}

func (a bookingSourceAdapter) FetchBookings(ctx context.Context, practitionerID string, start, end time.Time) ([]models.Booking, error) {
	return a.repo.ListRange(ctx, practitionerID, start.Format(models.DateLayout), end.Format(models.DateLayout))
}

// CalendarService serves the materialized weekly calendar. It keeps one
// weekly range controller per practitioner and caches materialized week
// views in Redis; availability and booking writes invalidate those entries.
type CalendarService struct {
	availability schedule.AvailabilitySource
	bookings     schedule.BookingSource
	cache        weekCache
	cacheTTL     time.Duration
	logger       *zap.Logger
	now          func() time.Time

	mu          sync.Mutex
	controllers map[string]*schedule.Controller
}

// NewCalendarService constructs a CalendarService.
func NewCalendarService(availability availabilityReader, bookings bookingLister, cache weekCache, cacheTTL time.Duration, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		availability: availabilitySourceAdapter{repo: availability},
		bookings:     bookingSourceAdapter{repo: bookings},
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger,
		now:          time.Now,
		controllers:  make(map[string]*schedule.Controller),
	}
}

// Week returns the current visible week, activating the controller on first
// use. A practitioner with no availability on record gets an empty response
// rather than an error.
func (s *CalendarService) Week(ctx context.Context, practitionerID string) (*dto.WeekResponse, error) {
	ctrl := s.controller(practitionerID)

	r, ok := ctrl.Range()
	if !ok {
		if err := ctrl.Activate(ctx, s.now()); err != nil {
			return nil, err
		}
		r, ok = ctrl.Range()
		if !ok {
			return &dto.WeekResponse{}, nil
		}
		return s.respond(ctx, practitionerID, ctrl, r, true), nil
	}

	key := s.cacheKey(practitionerID, r)
	if s.cache != nil {
		var days []models.DaySchedule
		if err := s.cache.Get(ctx, key, &days); err == nil {
			return weekResponse(r, days), nil
		}
	}
	return s.respond(ctx, practitionerID, ctrl, r, true), nil
}

// NextWeek advances the window by seven days.
func (s *CalendarService) NextWeek(ctx context.Context, practitionerID string) (*dto.WeekResponse, error) {
	return s.navigate(ctx, practitionerID, func(ctrl *schedule.Controller) error {
		return ctrl.NextWeek(ctx)
	})
}

// PreviousWeek rewinds the window by seven days.
func (s *CalendarService) PreviousWeek(ctx context.Context, practitionerID string) (*dto.WeekResponse, error) {
	return s.navigate(ctx, practitionerID, func(ctrl *schedule.Controller) error {
		return ctrl.PreviousWeek(ctx)
	})
}

// SetRange jumps to an explicit window picked by the caller.
func (s *CalendarService) SetRange(ctx context.Context, practitionerID, start, end string) (*dto.WeekResponse, error) {
	startDate, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid range start")
	}
	endDate, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid range end")
	}

	return s.navigate(ctx, practitionerID, func(ctrl *schedule.Controller) error {
		return ctrl.SetRange(ctx, startDate, endDate)
	})
}

// Export renders the current week as a printable table, one column per day
// and one row per slot time.
func (s *CalendarService) Export(ctx context.Context, practitionerID, format string) ([]byte, string, error) {
	week, err := s.Week(ctx, practitionerID)
	if err != nil {
		return nil, "", err
	}
	if len(week.Days) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "no calendar data for the current range")
	}

	dataset := weekDataset(week.Days)
	title := fmt.Sprintf("Week schedule %s - %s", week.Start, week.End)

	switch format {
	case "csv":
		payload, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := export.NewPDFExporter().Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *CalendarService) navigate(ctx context.Context, practitionerID string, transition func(*schedule.Controller) error) (*dto.WeekResponse, error) {
	ctrl := s.controller(practitionerID)
	if _, ok := ctrl.Range(); !ok {
		if err := ctrl.Activate(ctx, s.now()); err != nil {
			return nil, err
		}
	}

	if err := transition(ctrl); err != nil {
		return nil, err
	}

	r, ok := ctrl.Range()
	if !ok {
		return &dto.WeekResponse{}, nil
	}
	return s.respond(ctx, practitionerID, ctrl, r, true), nil
}

func (s *CalendarService) respond(ctx context.Context, practitionerID string, ctrl *schedule.Controller, r models.DateRange, store bool) *dto.WeekResponse {
	days := ctrl.Days()
	if store && s.cache != nil {
		key := s.cacheKey(practitionerID, r)
		if err := s.cache.Set(ctx, key, days, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache week view", zap.String("key", key), zap.Error(err))
		}
	}
	return weekResponse(r, days)
}

func (s *CalendarService) controller(practitionerID string) *schedule.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctrl, ok := s.controllers[practitionerID]
	if !ok {
		ctrl = schedule.NewController(practitionerID, s.availability, s.bookings, s.logger)
		s.controllers[practitionerID] = ctrl
	}
	return ctrl
}

func (s *CalendarService) cacheKey(practitionerID string, r models.DateRange) string {
	return fmt.Sprintf("calendar:%s:%s:%s", practitionerID,
		r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout))
}

func weekResponse(r models.DateRange, days []models.DaySchedule) *dto.WeekResponse {
	return &dto.WeekResponse{
		Start: r.Start.Format(models.DateLayout),
		End:   r.End.Format(models.DateLayout),
		Days:  days,
	}
}

func weekDataset(days []models.DaySchedule) export.Dataset {
	headers := []string{"Time"}
	for _, day := range days {
		headers = append(headers, fmt.Sprintf("%s %s", day.Day, day.FullDate))
	}

	rows := make([]map[string]string, 0)
	if len(days) == 0 {
		return export.Dataset{Headers: headers, Rows: rows}
	}

	for i, slot := range days[0].Availability.Slots {
		row := map[string]string{"Time": slot.Time}
		for d, day := range days {
			cell := "-"
			if i < len(day.Availability.Slots) {
				s := day.Availability.Slots[i]
				switch {
				case s.Status != models.StatusAvailable:
					cell = s.Status.String()
				case !s.IsDisabled:
					cell = "open"
				}
			}
			row[headers[d+1]] = cell
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
