package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haulaway/services/wizard"
)

// AcceptPrivacyHandler handles POST /api/wizard/session/:sessionID/privacy/accept.
func (h *WizardHandler) AcceptPrivacyHandler(c *gin.Context) {
	state, err := h.Service.Apply(c.Request.Context(), c.Param("sessionID"), wizard.SetPrivacyAccepted(true))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondState(c, state, wizard.StepPrivacy)
}

// SendCodeHandler handles POST /api/wizard/session/:sessionID/verify/send.
// A second send while one is pending gets a conflict instead of a second SMS.
func (h *WizardHandler) SendCodeHandler(c *gin.Context) {
	if err := h.Service.SendVerificationCode(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

// VerifyCodeHandler handles POST /api/wizard/session/:sessionID/verify/check.
func (h *WizardHandler) VerifyCodeHandler(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	state, err := h.Service.VerifyCode(c.Request.Context(), c.Param("sessionID"), input.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondState(c, state, wizard.StepPhoneVerify)
}
