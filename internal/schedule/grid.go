package schedule

import "github.com/carebook/booking-api/internal/models"

// GenerateSlots expands one day's availability windows into the fixed
// 07:00-21:00 grid of 15-minute slots.
//
// The bookable span is the union envelope across all categories: earliest
// configured start to latest configured end. A slot is enabled iff it starts
// inside the envelope with a full 15 minutes of headroom before the envelope
// end; a slot covered by only one category is still enabled.
//
// A nil or unconfigured day yields the full grid with every slot disabled,
// status Available. The function is pure and never fails: a day whose bounds
// cannot be resolved degrades to all-disabled rather than being omitted.
func GenerateSlots(day *models.DayAvailability) []models.Slot {
	envStart, envEnd, configured := envelope(day)

	slots := make([]models.Slot, 0, SlotsPerDay)
	for m := DayStartMinutes; m < DayEndMinutes; m += SlotMinutes {
		enabled := configured && m >= envStart && m+SlotMinutes <= envEnd
		slots = append(slots, models.Slot{
			Time:       minutesToClock(m),
			Status:     models.StatusAvailable,
			IsDisabled: !enabled,
		})
	}
	return slots
}

// envelope resolves the union span of all configured category windows.
// Bounds that do not parse count as absent.
func envelope(day *models.DayAvailability) (start, end int, ok bool) {
	if day == nil {
		return 0, 0, false
	}

	start, end = -1, -1
	for _, w := range []models.TimeWindow{day.Phone, day.InPerson, day.Break} {
		if w.From != "" {
			if m, err := clockToMinutes(w.Normalized().From); err == nil {
				if start == -1 || m < start {
					start = m
				}
			}
		}
		if w.To != "" {
			if m, err := clockToMinutes(w.Normalized().To); err == nil {
				if end == -1 || m > end {
					end = m
				}
			}
		}
	}

	if start == -1 || end == -1 {
		return 0, 0, false
	}
	return start, end, true
}
