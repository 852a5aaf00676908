package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carebook/booking-api/internal/dto"
	"github.com/carebook/booking-api/internal/service"
	appErrors "github.com/carebook/booking-api/pkg/errors"
	"github.com/carebook/booking-api/pkg/response"
)

// CalendarHandler serves the materialized weekly calendar.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// Week godoc
// @Summary Current visible week with slot grid
// @Tags Calendar
// @Produce json
// @Param practitionerId query string false "Practitioner ID (defaults to caller)"
// @Success 200 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) Week(c *gin.Context) {
	week, err := h.service.Week(c.Request.Context(), practitionerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Next godoc
// @Summary Shift the calendar one week forward
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar/next [post]
func (h *CalendarHandler) Next(c *gin.Context) {
	week, err := h.service.NextWeek(c.Request.Context(), practitionerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Previous godoc
// @Summary Shift the calendar one week back
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar/previous [post]
func (h *CalendarHandler) Previous(c *gin.Context) {
	week, err := h.service.PreviousWeek(c.Request.Context(), practitionerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// SetRange godoc
// @Summary Jump to an explicit date range
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body dto.SetRangeRequest true "Range"
// @Success 200 {object} response.Envelope
// @Router /calendar/range [put]
func (h *CalendarHandler) SetRange(c *gin.Context) {
	var req dto.SetRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	week, err := h.service.SetRange(c.Request.Context(), practitionerID(c), req.Start, req.End)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Export godoc
// @Summary Export the current week as CSV or PDF
// @Tags Calendar
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /calendar/export [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	payload, contentType, err := h.service.Export(c.Request.Context(), practitionerID(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=week-schedule."+format)
	c.Data(http.StatusOK, contentType, payload)
}
