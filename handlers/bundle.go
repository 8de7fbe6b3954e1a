package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haulaway/services/wizard"
	"haulaway/utils"
)

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	// Session lifecycle
	StartSession gin.HandlerFunc
	GetState     gin.HandlerFunc
	UpdateFields gin.HandlerFunc
	Continue     gin.HandlerFunc
	Back         gin.HandlerFunc
	Reset        gin.HandlerFunc

	// Address
	SearchAddress gin.HandlerFunc
	SelectAddress gin.HandlerFunc
	CheckAddress  gin.HandlerFunc

	// Privacy and phone verification
	AcceptPrivacy gin.HandlerFunc
	SendCode      gin.HandlerFunc
	VerifyCode    gin.HandlerFunc

	// Job details
	JobSizes     gin.HandlerFunc
	SetJob       gin.HandlerFunc
	UploadPhotos gin.HandlerFunc
	DeletePhoto  gin.HandlerFunc

	// Scheduling and submission
	Availability gin.HandlerFunc
	Submit       gin.HandlerFunc

	Health gin.HandlerFunc
}

// NewHandlerBundle builds the bundle from the wizard service.
func NewHandlerBundle(svc wizard.WizardService) *HandlerBundle {
	h := &WizardHandler{Service: svc}
	return &HandlerBundle{
		StartSession: h.StartSessionHandler,
		GetState:     h.GetStateHandler,
		UpdateFields: h.UpdateFieldsHandler,
		Continue:     h.ContinueHandler,
		Back:         h.BackHandler,
		Reset:        h.ResetHandler,

		SearchAddress: h.SearchAddressHandler,
		SelectAddress: h.SelectAddressHandler,
		CheckAddress:  h.CheckAddressHandler,

		AcceptPrivacy: h.AcceptPrivacyHandler,
		SendCode:      h.SendCodeHandler,
		VerifyCode:    h.VerifyCodeHandler,

		JobSizes:     h.JobSizesHandler,
		SetJob:       h.SetJobHandler,
		UploadPhotos: h.UploadPhotosHandler,
		DeletePhoto:  h.DeletePhotoHandler,

		Availability: h.AvailabilityHandler,
		Submit:       h.SubmitHandler,

		Health: HealthHandler,
	}
}

// HealthHandler reports the latest health snapshot of the service's
// dependencies.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
