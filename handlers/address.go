package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haulaway/models"
	"haulaway/services/wizard"
)

// SearchAddressHandler handles GET /api/wizard/session/:sessionID/address/search.
// The query parameter q carries the partial input; short or superseded
// queries just come back empty.
func (h *WizardHandler) SearchAddressHandler(c *gin.Context) {
	results, err := h.Service.SearchAddress(c.Request.Context(), c.Param("sessionID"), c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// SelectAddressHandler handles POST /api/wizard/session/:sessionID/address/select.
// Applying a suggestion fills all four address fields at once and suppresses
// the search the filled-in text would otherwise trigger.
func (h *WizardHandler) SelectAddressHandler(c *gin.Context) {
	var input struct {
		Result models.AddressResult `json:"result" binding:"required"`
		Query  string               `json:"query"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	state, err := h.Service.SelectAddress(c.Request.Context(), c.Param("sessionID"), input.Result, input.Query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondState(c, state, wizard.StepHomepage)
}

// CheckAddressHandler handles POST /api/wizard/session/:sessionID/address/check.
func (h *WizardHandler) CheckAddressHandler(c *gin.Context) {
	state, err := h.Service.CheckAddress(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondState(c, state, clientStep(c))
}
