package dto

import "github.com/carebook/booking-api/internal/models"

// WeekResponse is the materialized calendar for the current visible range.
// Start and End are empty before the controller has an active range.
type WeekResponse struct {
	Start string               `json:"start,omitempty"`
	End   string               `json:"end,omitempty"`
	Days  []models.DaySchedule `json:"days"`
}

// SetRangeRequest jumps the calendar to an explicit window.
type SetRangeRequest struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}
