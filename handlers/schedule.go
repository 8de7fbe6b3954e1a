package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haulaway/models"
	"haulaway/services/wizard"
)

// AvailabilityHandler handles POST /api/wizard/session/:sessionID/availability.
// The chosen date is stored on the session and the per-hour slots for that
// day come back. When contractors cannot be reached the slot list is empty
// rather than an error, so the picker keeps working.
func (h *WizardHandler) AvailabilityHandler(c *gin.Context) {
	var input struct {
		Date models.DateOnly `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sessionID := c.Param("sessionID")
	ctx := c.Request.Context()
	date := input.Date.Time()

	if _, err := h.Service.Apply(ctx, sessionID, wizard.SetSelectedDate(&date), wizard.SetSelectedTime(nil)); err != nil {
		respondServiceError(c, err)
		return
	}

	slots, err := h.Service.Availability(ctx, sessionID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// SubmitHandler handles POST /api/wizard/session/:sessionID/submit.
func (h *WizardHandler) SubmitHandler(c *gin.Context) {
	state, err := h.Service.Submit(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":         state,
		"step":          wizard.StepSubmitted,
		"appointmentID": state.AppointmentID,
	})
}
