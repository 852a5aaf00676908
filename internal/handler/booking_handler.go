package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carebook/booking-api/internal/models"
	"github.com/carebook/booking-api/internal/schedule"
	"github.com/carebook/booking-api/internal/service"
	appErrors "github.com/carebook/booking-api/pkg/errors"
	"github.com/carebook/booking-api/pkg/response"
)

// BookingHandler manages appointment endpoints.
type BookingHandler struct {
	service *service.BookingService
	metrics *service.MetricsService
}

// NewBookingHandler constructs handler.
func NewBookingHandler(svc *service.BookingService, metrics *service.MetricsService) *BookingHandler {
	return &BookingHandler{service: svc, metrics: metrics}
}

// List godoc
// @Summary List bookings for a day or week
// @Tags Bookings
// @Produce json
// @Param practitionerId query string false "Practitioner ID (defaults to caller)"
// @Param date query string false "Anchor date YYYY-MM-DD (defaults to today)"
// @Param range query string false "day or week" default(week)
// @Success 200 {object} response.Envelope
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format(models.DateLayout))
	rng := c.DefaultQuery("range", "week")

	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date"))
		return
	}
	start, end := day, day
	if rng != "day" {
		start = schedule.WeekStart(day)
		end = start.AddDate(0, 0, 6)
	}

	bookings, err := h.service.List(c.Request.Context(), models.BookingFilter{
		PractitionerID: practitionerID(c),
		Start:          start.Format(models.DateLayout),
		End:            end.Format(models.DateLayout),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, nil)
}

// Create godoc
// @Summary Create a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body service.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.PractitionerID == "" {
		req.PractitionerID = practitionerID(c)
	}

	booking, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountBooking("created")
	}
	response.Created(c, booking)
}

// Update godoc
// @Summary Update a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param payload body service.UpdateBookingRequest true "Booking payload"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id} [put]
func (h *BookingHandler) Update(c *gin.Context) {
	var req service.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	booking, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountBooking("updated")
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// Cancel godoc
// @Summary Cancel a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204 "No Content"
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountBooking("cancelled")
	}
	response.NoContent(c)
}
