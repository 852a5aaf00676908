package schedule

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/carebook/booking-api/internal/models"
	appErrors "github.com/carebook/booking-api/pkg/errors"
)

// AvailabilitySource fetches availability records for a date range.
type AvailabilitySource interface {
	FetchAvailability(ctx context.Context, practitionerID string, start, end time.Time) ([]models.DayAvailability, error)
}

// BookingSource fetches bookings for a date range.
type BookingSource interface {
	FetchBookings(ctx context.Context, practitionerID string, start, end time.Time) ([]models.Booking, error)
}

// Controller owns the visible weekly window for one practitioner: the
// current date range, the availability and booking records fetched for it,
// and the derived day schedules. All mutation funnels through the named
// transitions (Activate, NextWeek, PreviousWeek, SetRange).
//
// Every range change triggers exactly one availability fetch and one booking
// fetch. A generation counter taken at transition time guards against rapid
// navigation: responses for a superseded range are discarded instead of
// being applied out of order, and the derived days are only recomputed once
// both fetches for the current range have resolved.
type Controller struct {
	availability AvailabilitySource
	bookings     BookingSource
	logger       *zap.Logger

	practitionerID string

	mu         sync.Mutex
	generation uint64
	rangeSet   bool
	dateRange  models.DateRange
	records    []models.DayAvailability
	live       []models.Booking
	days       []models.DaySchedule
}

// NewController constructs a controller for one practitioner.
func NewController(practitionerID string, availability AvailabilitySource, bookings BookingSource, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		availability:   availability,
		bookings:       bookings,
		logger:         logger,
		practitionerID: practitionerID,
	}
}

// Activate performs the initial load: it fetches availability for the week
// containing now and seeds the date range from the first and last returned
// dates. When the server returns no records the range stays unset and no
// days are rendered.
func (c *Controller) Activate(ctx context.Context, now time.Time) error {
	weekStart := WeekStart(now)
	weekEnd := weekStart.AddDate(0, 0, 6)

	records, err := c.availability.FetchAvailability(ctx, c.practitionerID, weekStart, weekEnd)
	if err != nil {
		return fetchError(err)
	}
	if len(records) == 0 {
		return nil
	}

	start, end, ok := recordBounds(records)
	if !ok {
		start, end = weekStart, weekEnd
	}
	return c.refresh(ctx, models.DateRange{Start: start, End: end})
}

// NextWeek shifts the window forward by exactly seven days and refetches.
func (c *Controller) NextWeek(ctx context.Context) error {
	return c.shift(ctx, 7)
}

// PreviousWeek shifts the window back by exactly seven days and refetches.
func (c *Controller) PreviousWeek(ctx context.Context) error {
	return c.shift(ctx, -7)
}

// SetRange jumps to an arbitrary window, e.g. from a date-range picker. Any
// pair is accepted; weekly semantics downstream expect callers to supply
// seven-day windows.
func (c *Controller) SetRange(ctx context.Context, start, end time.Time) error {
	return c.refresh(ctx, models.DateRange{Start: start, End: end})
}

// Range returns the current window. ok is false before activation.
func (c *Controller) Range() (models.DateRange, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dateRange, c.rangeSet
}

// Days returns a copy of the materialized day schedules.
func (c *Controller) Days() []models.DaySchedule {
	c.mu.Lock()
	defer c.mu.Unlock()
	days := make([]models.DaySchedule, len(c.days))
	copy(days, c.days)
	return days
}

func (c *Controller) shift(ctx context.Context, days int) error {
	c.mu.Lock()
	if !c.rangeSet {
		c.mu.Unlock()
		return appErrors.Clone(appErrors.ErrValidation, "no active date range")
	}
	next := c.dateRange.Shift(days)
	c.mu.Unlock()

	return c.refresh(ctx, next)
}

// refresh commits the new range, fetches both data sets for it, and applies
// them only if no later transition has superseded this one. A fetch failure
// leaves the previously derived days and records untouched.
func (c *Controller) refresh(ctx context.Context, r models.DateRange) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.dateRange = r
	c.rangeSet = true
	c.mu.Unlock()

	records, err := c.availability.FetchAvailability(ctx, c.practitionerID, r.Start, r.End)
	if err != nil {
		return fetchError(err)
	}
	bookings, err := c.bookings.FetchBookings(ctx, c.practitionerID, r.Start, r.End)
	if err != nil {
		return fetchError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// A later transition superseded this fetch; drop the stale response.
		return nil
	}
	c.records = records
	c.live = bookings
	c.recomputeLocked()
	return nil
}

// recomputeLocked regenerates the derived day schedules from the current
// range, records, and bookings. Caller must hold c.mu.
func (c *Controller) recomputeLocked() {
	if !c.rangeSet {
		c.days = nil
		return
	}

	byDate := make(map[string]*models.DayAvailability, len(c.records))
	for i := range c.records {
		byDate[c.records[i].Date] = &c.records[i]
	}

	dates := c.orderedDatesLocked(byDate)

	days := make([]models.DaySchedule, 0, len(dates))
	for _, date := range dates {
		iso := date.Format(models.DateLayout)
		record := byDate[iso]

		slots := GenerateSlots(record)
		for i := range slots {
			res := ResolveStatus(iso, slots[i].Time, c.live)
			slots[i].Status = res.Status
			slots[i].IsParentSlot = res.IsParentSlot
			slots[i].BookingID = res.BookingID
		}

		days = append(days, models.DaySchedule{
			Day:      date.Format("Mon"),
			Date:     strconv.Itoa(date.Day()),
			FullDate: iso,
			Availability: models.DayScheduleAvailability{
				IsAvailable: dayIsAvailable(record),
				Slots:       slots,
			},
		})
	}
	c.days = days
}

// orderedDatesLocked yields the calendar dates to render. When the server's
// date list is exactly a permutation of the requested range the server
// ordering wins; otherwise the range is walked chronologically and any
// server date outside the range is logged as a divergence warning.
func (c *Controller) orderedDatesLocked(byDate map[string]*models.DayAvailability) []time.Time {
	requested := make([]time.Time, 0, 7)
	requestedSet := make(map[string]struct{}, 7)
	for d := c.dateRange.Start; !d.After(c.dateRange.End); d = d.AddDate(0, 0, 1) {
		requested = append(requested, d)
		requestedSet[d.Format(models.DateLayout)] = struct{}{}
	}

	if len(c.records) == len(requested) {
		permutation := true
		for date := range byDate {
			if _, ok := requestedSet[date]; !ok {
				permutation = false
				break
			}
		}
		if permutation && len(byDate) == len(requested) {
			ordered := make([]time.Time, 0, len(c.records))
			for _, rec := range c.records {
				d, err := time.Parse(models.DateLayout, rec.Date)
				if err != nil {
					permutation = false
					break
				}
				ordered = append(ordered, d)
			}
			if permutation {
				return ordered
			}
		}
	}

	for _, rec := range c.records {
		if _, ok := requestedSet[rec.Date]; !ok {
			c.logger.Warn("availability record outside requested range",
				zap.String("practitioner_id", c.practitionerID),
				zap.String("date", rec.Date),
				zap.String("range_start", c.dateRange.Start.Format(models.DateLayout)),
				zap.String("range_end", c.dateRange.End.Format(models.DateLayout)),
			)
		}
	}
	return requested
}

// dayIsAvailable is true only when the day exists in the server set and has
// at least one non-empty start time in any category. A day absent from
// server data is never available, even with client-side edits pending.
func dayIsAvailable(record *models.DayAvailability) bool {
	if record == nil {
		return false
	}
	return record.Phone.From != "" || record.InPerson.From != "" || record.Break.From != ""
}

func recordBounds(records []models.DayAvailability) (time.Time, time.Time, bool) {
	var start, end time.Time
	found := false
	for _, rec := range records {
		d, err := time.Parse(models.DateLayout, rec.Date)
		if err != nil {
			continue
		}
		if !found {
			start, end = d, d
			found = true
			continue
		}
		if d.Before(start) {
			start = d
		}
		if d.After(end) {
			end = d
		}
	}
	return start, end, found
}

func fetchError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, appErrors.ErrFetchFailed.Message)
}
