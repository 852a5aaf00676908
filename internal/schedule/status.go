package schedule

import "github.com/carebook/booking-api/internal/models"

// Resolution describes how a slot relates to the day's bookings.
//
// A slot matching a booking's exact start time owns the booking: it carries
// the booking ID and IsParentSlot, and is the only slot through which the
// booking can be edited. Slots merely contained in a longer booking inherit
// its status but are not independently actionable, so multi-slot bookings
// render as one editable block.
type Resolution struct {
	Status       models.BookingStatus
	IsParentSlot bool
	BookingID    string
}

// ResolveStatus computes the display status of the slot at clock on date.
// Exact start matches always win over containment; both passes scan in
// input order, so resolution is deterministic even if bookings overlap.
func ResolveStatus(date, clock string, bookings []models.Booking) Resolution {
	slotMinutes, err := clockToMinutes(clock)
	if err != nil {
		return Resolution{Status: models.StatusAvailable}
	}

	for _, b := range bookings {
		if b.Date != date {
			continue
		}
		start, err := bookingStart(b)
		if err != nil {
			continue
		}
		if start == slotMinutes {
			return Resolution{Status: b.Status, IsParentSlot: true, BookingID: b.ID}
		}
	}

	for _, b := range bookings {
		if b.Date != date {
			continue
		}
		start, err := bookingStart(b)
		if err != nil {
			continue
		}
		if slotMinutes > start && slotMinutes < start+b.LengthMinutes {
			return Resolution{Status: b.Status}
		}
	}

	return Resolution{Status: models.StatusAvailable}
}

func bookingStart(b models.Booking) (int, error) {
	clock, err := NormalizeClock(b.StartTime)
	if err != nil {
		return 0, err
	}
	return clockToMinutes(clock)
}
