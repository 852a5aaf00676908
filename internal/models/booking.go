package models

import (
	"fmt"
	"time"
)

// BookingStatus is the display state of a booking (and of the slot it owns).
type BookingStatus int

const (
	StatusAvailable BookingStatus = iota
	StatusActive
	StatusCancelled
	StatusUnconfirmed
)

var statusNames = map[BookingStatus]string{
	StatusAvailable:   "available",
	StatusActive:      "active",
	StatusCancelled:   "cancelled",
	StatusUnconfirmed: "unconfirmed",
}

// String returns the lowercase wire name for the status.
func (s BookingStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// ParseBookingStatus maps a wire name onto the enum.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	for status, name := range statusNames {
		if name == raw {
			return status, nil
		}
	}
	return StatusAvailable, fmt.Errorf("unknown booking status %q", raw)
}

// Booking is one patient appointment. Times are minute precision; the
// occupied interval is [StartTime, StartTime+LengthMinutes).
type Booking struct {
	ID             string        `db:"id" json:"id"`
	PractitionerID string        `db:"practitioner_id" json:"practitioner_id"`
	PatientName    string        `db:"patient_name" json:"patient_name"`
	PatientPhone   string        `db:"patient_phone" json:"patient_phone"`
	PatientEmail   string        `db:"patient_email" json:"patient_email"`
	ReasonForCall  string        `db:"reason_for_call" json:"reason_for_call"`
	Date           string        `db:"date" json:"date"`
	StartTime      string        `db:"start_time" json:"start_time"`
	LengthMinutes  int           `db:"length_minutes" json:"length"`
	Status         BookingStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
	CancelledAt    *time.Time    `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

// BookingFilter captures the range filter for listing bookings.
type BookingFilter struct {
	PractitionerID string
	Start          string
	End            string
}
