// Package schedule implements the availability-and-slot reconciliation
// engine: expanding working-hour windows into a 15-minute slot grid,
// overlaying bookings onto it, validating window edits, and keeping a
// rolling weekly window of derived day schedules in sync with backend data.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DayStartMinutes is the first slot of the daily grid (07:00).
	DayStartMinutes = 7 * 60
	// DayEndMinutes is the exclusive upper bound of the grid (21:00).
	DayEndMinutes = 21 * 60
	// SlotMinutes is the grid granularity.
	SlotMinutes = 15

	// SlotsPerDay is the fixed size of a day's grid.
	SlotsPerDay = (DayEndMinutes - DayStartMinutes) / SlotMinutes
)

// NormalizeClock trims a trailing seconds component and validates that the
// result is a well-formed 24h "HH:MM" value.
func NormalizeClock(raw string) (string, error) {
	clock := raw
	if strings.Count(clock, ":") == 2 {
		clock = clock[:strings.LastIndex(clock, ":")]
	}
	if _, err := clockToMinutes(clock); err != nil {
		return "", err
	}
	return clock, nil
}

// ClockMinutes normalizes a clock value and converts it to minutes from
// midnight.
func ClockMinutes(raw string) (int, error) {
	clock, err := NormalizeClock(raw)
	if err != nil {
		return 0, err
	}
	return clockToMinutes(clock)
}

// ClockAt formats minutes from midnight as "HH:MM".
func ClockAt(minutes int) string {
	return minutesToClock(minutes)
}

// GridAligned reports whether a clock value falls on the 15-minute grid,
// returning its minutes from midnight when it does.
func GridAligned(raw string) (int, bool) {
	minutes, err := ClockMinutes(raw)
	if err != nil || minutes%SlotMinutes != 0 {
		return 0, false
	}
	return minutes, true
}

// clockToMinutes converts "HH:MM" into minutes from midnight.
func clockToMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("malformed clock value %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("malformed clock value %q", clock)
	}
	return hours*60 + minutes, nil
}

// minutesToClock formats minutes from midnight as "HH:MM".
func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
