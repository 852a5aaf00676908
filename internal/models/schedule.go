package models

import "time"

// Slot is one 15-minute addressable unit of a day's grid. IsDisabled marks
// slots outside the configured envelope; status is independent of it, so a
// disabled slot still shows a booking that already exists there.
type Slot struct {
	Time         string        `json:"time"`
	Status       BookingStatus `json:"status"`
	IsDisabled   bool          `json:"is_disabled"`
	IsParentSlot bool          `json:"is_parent_slot"`
	BookingID    string        `json:"booking_id,omitempty"`
}

// DayScheduleAvailability is the derived per-day slot grid.
type DayScheduleAvailability struct {
	IsAvailable bool   `json:"is_available"`
	Slots       []Slot `json:"slots"`
}

// DaySchedule is one rendered day of the weekly calendar.
type DaySchedule struct {
	Day          string                  `json:"day"`
	Date         string                  `json:"date"`
	FullDate     string                  `json:"full_date"`
	Availability DayScheduleAvailability `json:"availability"`
}

// DateRange is the controller's inclusive visible window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Shift returns the range moved by the given number of days.
func (r DateRange) Shift(days int) DateRange {
	return DateRange{
		Start: r.Start.AddDate(0, 0, days),
		End:   r.End.AddDate(0, 0, days),
	}
}
