package dto

import "github.com/carebook/booking-api/internal/models"

// AvailabilityResponse returns availability both in server shape and in the
// weekday-keyed shape the editing form consumes.
type AvailabilityResponse struct {
	Availability []models.DayAvailability  `json:"availability"`
	Weekly       models.WeeklyAvailability `json:"weekly"`
}
