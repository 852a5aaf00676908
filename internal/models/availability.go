package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DayKey identifies a weekday column in the weekly availability editor.
type DayKey string

const (
	DayMonday    DayKey = "monday"
	DayTuesday   DayKey = "tuesday"
	DayWednesday DayKey = "wednesday"
	DayThursday  DayKey = "thursday"
	DayFriday    DayKey = "friday"
	DaySaturday  DayKey = "saturday"
	DaySunday    DayKey = "sunday"
)

// WeekDays lists the weekday keys in editing order, Monday first.
var WeekDays = []DayKey{
	DayMonday, DayTuesday, DayWednesday, DayThursday,
	DayFriday, DaySaturday, DaySunday,
}

// DayKeyFor maps a weekday to its editor key.
func DayKeyFor(d time.Weekday) DayKey {
	switch d {
	case time.Monday:
		return DayMonday
	case time.Tuesday:
		return DayTuesday
	case time.Wednesday:
		return DayWednesday
	case time.Thursday:
		return DayThursday
	case time.Friday:
		return DayFriday
	case time.Saturday:
		return DaySaturday
	default:
		return DaySunday
	}
}

// TimeWindow is a single from/to range in "HH:MM". Either both bounds are
// set or both are empty. Empty bounds serialise as JSON null so the backend
// can distinguish a cleared window from an unset one.
type TimeWindow struct {
	From string
	To   string
}

// Set reports whether both bounds are present.
func (w TimeWindow) Set() bool {
	return w.From != "" && w.To != ""
}

// Empty reports whether both bounds are absent.
func (w TimeWindow) Empty() bool {
	return w.From == "" && w.To == ""
}

// Normalized returns the window with any trailing seconds component removed
// from both bounds ("09:00:00" becomes "09:00").
func (w TimeWindow) Normalized() TimeWindow {
	return TimeWindow{From: trimSeconds(w.From), To: trimSeconds(w.To)}
}

type timeWindowJSON struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// MarshalJSON emits null for empty bounds, never an empty string.
func (w TimeWindow) MarshalJSON() ([]byte, error) {
	out := timeWindowJSON{}
	if w.From != "" {
		from := trimSeconds(w.From)
		out.From = &from
	}
	if w.To != "" {
		to := trimSeconds(w.To)
		out.To = &to
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts null or string bounds and trims seconds on input.
func (w *TimeWindow) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*w = TimeWindow{}
		return nil
	}
	var in timeWindowJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	w.From = ""
	w.To = ""
	if in.From != nil {
		w.From = trimSeconds(*in.From)
	}
	if in.To != nil {
		w.To = trimSeconds(*in.To)
	}
	return nil
}

func trimSeconds(clock string) string {
	if strings.Count(clock, ":") == 2 {
		return clock[:strings.LastIndex(clock, ":")]
	}
	return clock
}

// CategoryWindows groups the three bookable-hour categories for one day.
type CategoryWindows struct {
	Phone    TimeWindow `json:"phone"`
	InPerson TimeWindow `json:"in_person"`
	Break    TimeWindow `json:"break"`
}

// Normalized returns the windows with seconds trimmed from every bound.
func (c CategoryWindows) Normalized() CategoryWindows {
	return CategoryWindows{
		Phone:    c.Phone.Normalized(),
		InPerson: c.InPerson.Normalized(),
		Break:    c.Break.Normalized(),
	}
}

// DayAvailability is the server shape for one calendar date. Rows are
// replaced wholesale on save, never patched.
type DayAvailability struct {
	Date string `json:"date"`
	CategoryWindows
}

// WeeklyDay is one weekday column of the availability editor.
type WeeklyDay struct {
	CategoryWindows
	IsAvailable bool `json:"is_available"`
}

// WeeklyAvailability is the weekday-keyed editing shape. It is derived from
// DayAvailability records and never persisted directly.
type WeeklyAvailability map[DayKey]WeeklyDay

// AvailabilityRecord is the availability table row.
type AvailabilityRecord struct {
	ID             string    `db:"id"`
	PractitionerID string    `db:"practitioner_id"`
	Date           string    `db:"date"`
	PhoneFrom      *string   `db:"phone_from"`
	PhoneTo        *string   `db:"phone_to"`
	InPersonFrom   *string   `db:"in_person_from"`
	InPersonTo     *string   `db:"in_person_to"`
	BreakFrom      *string   `db:"break_from"`
	BreakTo        *string   `db:"break_to"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
