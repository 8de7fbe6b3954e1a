package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"haulaway/models"
	"haulaway/services/wizard"
	"haulaway/utils"
)

// JobSizesHandler handles GET /api/wizard/session/:sessionID/job-sizes. The
// first fetch for a session also applies the default tier, so the response
// state always carries a selection alongside the catalog and its slice of
// the price slider.
func (h *WizardHandler) JobSizesHandler(c *gin.Context) {
	sizes, state, err := h.Service.JobSizes(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{
		"jobSizes": sizes,
		"state":    state,
		"slider":   wizard.SliderBounds(),
		"step":     wizard.NextAllowedStep(state, wizard.StepJunkAmount),
	}
	if state.SelectedJobSize != nil {
		resp["priceRange"] = wizard.PriceSegment(state.SelectedJobSize.ID)
	}
	c.JSON(http.StatusOK, resp)
}

// SetJobHandler handles PUT /api/wizard/session/:sessionID/job.
func (h *WizardHandler) SetJobHandler(c *gin.Context) {
	var input struct {
		JobSize *models.JobSize `json:"jobSize"`
		Notes   *string         `json:"notes"`
		Notes2  *string         `json:"notes2"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	var actions []wizard.Action
	if input.JobSize != nil {
		actions = append(actions, wizard.SetJobSize(input.JobSize))
	}
	if input.Notes != nil {
		actions = append(actions, wizard.SetNotes(*input.Notes))
	}
	if input.Notes2 != nil {
		actions = append(actions, wizard.SetNotes2(*input.Notes2))
	}

	state, err := h.Service.Apply(c.Request.Context(), c.Param("sessionID"), actions...)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{
		"state": state,
		"step":  wizard.NextAllowedStep(state, wizard.StepJunkAmount),
	}
	if state.SelectedJobSize != nil {
		resp["priceRange"] = wizard.PriceSegment(state.SelectedJobSize.ID)
	}
	c.JSON(http.StatusOK, resp)
}

// UploadPhotosHandler handles POST /api/wizard/session/:sessionID/photos.
// Photos arrive as multipart files under the "photos" field and are spooled
// until submission.
func (h *WizardHandler) UploadPhotosHandler(c *gin.Context) {
	logger := utils.GetLogger()

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form", "details": err.Error()})
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no photos provided"})
		return
	}

	// Invalid files are skipped and reported; valid ones still go in.
	sessionID := c.Param("sessionID")
	ctx := c.Request.Context()
	rejected := make([]string, 0)
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			logger.Error("Failed to open uploaded photo", zap.String("sessionID", sessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		_, err = h.Service.AddPhoto(ctx, sessionID, fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
		f.Close()
		if err != nil {
			var rej *wizard.RejectionError
			if errors.As(err, &rej) {
				rejected = append(rejected, fh.Filename)
				continue
			}
			respondServiceError(c, err)
			return
		}
	}

	state, err := h.Service.GetState(ctx, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":    state,
		"step":     wizard.NextAllowedStep(state, wizard.StepJunkAmount),
		"rejected": rejected,
	})
}

// DeletePhotoHandler handles DELETE /api/wizard/session/:sessionID/photos/:index.
func (h *WizardHandler) DeletePhotoHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo index"})
		return
	}

	state, err := h.Service.RemovePhoto(c.Request.Context(), c.Param("sessionID"), index)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondState(c, state, wizard.StepJunkAmount)
}
