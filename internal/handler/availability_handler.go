package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carebook/booking-api/internal/middleware"
	"github.com/carebook/booking-api/internal/models"
	"github.com/carebook/booking-api/internal/service"
	appErrors "github.com/carebook/booking-api/pkg/errors"
	"github.com/carebook/booking-api/pkg/response"
)

// AvailabilityHandler manages working-hour window endpoints.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Get godoc
// @Summary Get availability for a day or week
// @Tags Availability
// @Produce json
// @Param practitionerId query string false "Practitioner ID (defaults to caller)"
// @Param date query string false "Anchor date YYYY-MM-DD (defaults to today)"
// @Param range query string false "day or week" default(week)
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format(models.DateLayout))
	rng := c.DefaultQuery("range", "week")

	result, err := h.service.Get(c.Request.Context(), practitionerID(c), date, rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SaveWeekly godoc
// @Summary Replace the staged week's availability
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body service.SaveWeeklyRequest true "Weekly availability"
// @Success 200 {object} response.Envelope
// @Router /availability [put]
func (h *AvailabilityHandler) SaveWeekly(c *gin.Context) {
	var req service.SaveWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.SaveWeekly(c.Request.Context(), practitionerID(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "availability saved"}, nil)
}

// practitionerID resolves the target practitioner: an explicit query param
// wins, otherwise the authenticated caller.
func practitionerID(c *gin.Context) string {
	if id := c.Query("practitionerId"); id != "" {
		return id
	}
	if claims := middleware.CurrentUser(c); claims != nil {
		return claims.UserID
	}
	return ""
}
