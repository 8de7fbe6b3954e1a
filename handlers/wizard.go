package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"haulaway/integrations/dispatchapi"
	"haulaway/models"
	"haulaway/services/wizard"
	"haulaway/utils"
)

// WizardHandler serves the booking flow endpoints.
type WizardHandler struct {
	Service wizard.WizardService
}

// StartSessionHandler handles POST /api/wizard/session. A known session id in
// the body resumes that session; otherwise a fresh one is created, capturing
// the dispatcher attribution from the landing URL.
func (h *WizardHandler) StartSessionHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var input struct {
		SessionID string `json:"sessionId"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}

	dispatcherID := c.Query("utm_content")
	if dispatcherID == "" {
		dispatcherID = c.Query("dispatcher_id")
	}

	sessionID, state, err := h.Service.StartSession(c.Request.Context(), input.SessionID, dispatcherID)
	if err != nil {
		logger.Error("Failed to start wizard session", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionID": sessionID,
		"state":     state,
		"step":      wizard.NextAllowedStep(state, wizard.StepHomepage),
	})
}

// GetStateHandler handles GET /api/wizard/session/:sessionID. The optional
// step query parameter names the screen the client thinks it is on; the
// response carries the screen it should be on.
func (h *WizardHandler) GetStateHandler(c *gin.Context) {
	state, err := h.Service.GetState(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondState(c, state, clientStep(c))
}

type updateFieldsRequest struct {
	FirstName    *string          `json:"firstName"`
	LastName     *string          `json:"lastName"`
	PhoneNumber  *string          `json:"phoneNumber"`
	Address      *string          `json:"address"`
	City         *string          `json:"city"`
	State        *string          `json:"state"`
	ZipCode      *string          `json:"zipCode"`
	Notes        *string          `json:"notes"`
	Notes2       *string          `json:"notes2"`
	SelectedTime *int             `json:"selectedTime"`
	SelectedDate *models.DateOnly `json:"selectedDate"`
}

func (r updateFieldsRequest) actions() []wizard.Action {
	var actions []wizard.Action
	if r.FirstName != nil {
		actions = append(actions, wizard.SetFirstName(*r.FirstName))
	}
	if r.LastName != nil {
		actions = append(actions, wizard.SetLastName(*r.LastName))
	}
	if r.PhoneNumber != nil {
		actions = append(actions, wizard.SetPhoneNumber(*r.PhoneNumber))
	}
	if r.Address != nil {
		actions = append(actions, wizard.SetAddress(*r.Address))
	}
	if r.City != nil {
		actions = append(actions, wizard.SetCity(*r.City))
	}
	if r.State != nil {
		actions = append(actions, wizard.SetStateField(*r.State))
	}
	if r.ZipCode != nil {
		actions = append(actions, wizard.SetZipCode(*r.ZipCode))
	}
	if r.Notes != nil {
		actions = append(actions, wizard.SetNotes(*r.Notes))
	}
	if r.Notes2 != nil {
		actions = append(actions, wizard.SetNotes2(*r.Notes2))
	}
	if r.SelectedTime != nil {
		actions = append(actions, wizard.SetSelectedTime(r.SelectedTime))
	}
	if r.SelectedDate != nil {
		d := r.SelectedDate.Time()
		actions = append(actions, wizard.SetSelectedDate(&d))
	}
	return actions
}

// UpdateFieldsHandler handles PATCH /api/wizard/session/:sessionID/fields.
// Fields arrive as the user types, so no validation happens here; the gate
// checks run when the step is continued.
func (h *WizardHandler) UpdateFieldsHandler(c *gin.Context) {
	var input updateFieldsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	state, err := h.Service.Apply(c.Request.Context(), c.Param("sessionID"), input.actions()...)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondState(c, state, clientStep(c))
}

// ContinueHandler handles POST /api/wizard/session/:sessionID/continue.
// Continuing from the homepage runs the contact-form gate: field validation
// first, then the service-area check.
func (h *WizardHandler) ContinueHandler(c *gin.Context) {
	var input struct {
		From string `json:"from" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	from, ok := wizard.ParseStep(input.From)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown step", "step": input.From})
		return
	}

	sessionID := c.Param("sessionID")
	ctx := c.Request.Context()

	if from == wizard.StepHomepage {
		state, err := h.Service.GetState(ctx, sessionID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if fieldErrors := contactFieldErrors(state); len(fieldErrors) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrors})
			return
		}
		if _, err := h.Service.CheckAddress(ctx, sessionID); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	step, state, err := h.Service.Continue(ctx, sessionID, from)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state, "step": step})
}

// BackHandler handles POST /api/wizard/session/:sessionID/back.
func (h *WizardHandler) BackHandler(c *gin.Context) {
	var input struct {
		From string `json:"from" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	from, ok := wizard.ParseStep(input.From)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown step", "step": input.From})
		return
	}

	step, state, err := h.Service.Back(c.Request.Context(), c.Param("sessionID"), from)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state, "step": step})
}

// ResetHandler handles POST /api/wizard/session/:sessionID/reset.
func (h *WizardHandler) ResetHandler(c *gin.Context) {
	state, err := h.Service.ResetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondState(c, state, wizard.StepHomepage)
}

// contactFieldErrors validates the homepage form fields, returning a message
// per offending field.
func contactFieldErrors(state models.BookingState) map[string]string {
	fieldErrors := make(map[string]string)
	check := func(field, value string) {
		if msg := utils.FieldError(field, value); msg != "" {
			fieldErrors[field] = msg
		}
	}
	check("firstName", state.FirstName)
	check("lastName", state.LastName)
	check("phoneNumber", state.PhoneNumber)
	check("address", state.Address)
	check("city", state.City)
	check("state", state.State)
	check("zipCode", state.ZipCode)
	return fieldErrors
}

// clientStep reads the step the client reports being on, defaulting to the
// homepage.
func clientStep(c *gin.Context) wizard.Step {
	if step, ok := wizard.ParseStep(c.Query("step")); ok {
		return step
	}
	return wizard.StepHomepage
}

// respondState writes the state plus the step the session should land on.
func respondState(c *gin.Context, state models.BookingState, current wizard.Step) {
	c.JSON(http.StatusOK, gin.H{
		"state": state,
		"step":  wizard.NextAllowedStep(state, current),
	})
}

// respondServiceError maps service errors onto HTTP statuses. Business
// rejections from the dispatch platform surface as 422 with the platform's
// message; transport trouble with the platform is a 502.
func respondServiceError(c *gin.Context, err error) {
	var rej *wizard.RejectionError
	switch {
	case errors.As(err, &rej):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": rej.Msg})
	case errors.Is(err, wizard.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, wizard.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": "booking already submitted"})
	case errors.Is(err, wizard.ErrSubmitInFlight),
		errors.Is(err, wizard.ErrVerificationInFlight),
		errors.Is(err, wizard.ErrSendInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrIncompleteBooking):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, dispatchapi.ErrTransport),
		errors.Is(err, dispatchapi.ErrInvalidResponse),
		errors.Is(err, dispatchapi.ErrInternal):
		c.JSON(http.StatusBadGateway, gin.H{"error": "dispatch service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
