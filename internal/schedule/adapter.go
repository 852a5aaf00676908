package schedule

import (
	"time"

	"github.com/carebook/booking-api/internal/models"
)

// ToWeekly folds per-date availability records into the weekday-keyed shape
// the editing form and validator consume. All seven weekday columns are
// present in the result; days without a record stay unavailable. Seconds
// are trimmed from every bound and is_available is true iff any category has
// both bounds set.
func ToWeekly(records []models.DayAvailability) models.WeeklyAvailability {
	weekly := make(models.WeeklyAvailability, len(models.WeekDays))
	for _, key := range models.WeekDays {
		weekly[key] = models.WeeklyDay{}
	}

	for _, rec := range records {
		date, err := time.Parse(models.DateLayout, rec.Date)
		if err != nil {
			continue
		}
		windows := rec.CategoryWindows.Normalized()
		weekly[models.DayKeyFor(date.Weekday())] = models.WeeklyDay{
			CategoryWindows: windows,
			IsAvailable:     windows.Phone.Set() || windows.InPerson.Set() || windows.Break.Set(),
		}
	}

	return weekly
}

// ToPayload is the inverse transform for submission: one record per weekday
// present in the staged edits, anchored to the week starting at weekStart
// (expected to be a Monday). Empty bounds marshal as null, never as empty
// strings, so the backend can tell "cleared" from "unset".
//
// The round trip is idempotent: ToPayload(ToWeekly(ToPayload(ToWeekly(x))))
// equals ToPayload(ToWeekly(x)).
func ToPayload(weekly models.WeeklyAvailability, weekStart time.Time) []models.DayAvailability {
	out := make([]models.DayAvailability, 0, len(models.WeekDays))
	for i, key := range models.WeekDays {
		day, ok := weekly[key]
		if !ok {
			continue
		}
		out = append(out, models.DayAvailability{
			Date:            weekStart.AddDate(0, 0, i).Format(models.DateLayout),
			CategoryWindows: day.CategoryWindows.Normalized(),
		})
	}
	return out
}

// WeekStart returns the Monday of the week containing the given date.
func WeekStart(date time.Time) time.Time {
	offset := int(date.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.AddDate(0, 0, -offset)
}
