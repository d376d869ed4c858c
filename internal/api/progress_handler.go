package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgressHandler holds the progress service dependency.
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// --- DTOs ---

// ProgressRecordRequest covers create and update of a progress record.
// Numeric fields come as strings from the measurement form, empty means
// the field was left blank.
type ProgressRecordRequest struct {
	RecordDate   string               `json:"recordDate" binding:"required,datetime=2006-01-02"`
	Weight       string               `json:"weight"`
	BodyFat      string               `json:"bodyFat"`
	MuscleMass   string               `json:"muscleMass"`
	Measurements *MeasurementsRequest `json:"measurements"`
	Notes        string               `json:"notes"`
}

// MeasurementsRequest carries the optional tape measurements in cm.
type MeasurementsRequest struct {
	Biceps string `json:"biceps"`
	Waist  string `json:"waist"`
	Thigh  string `json:"thigh"`
	Chest  string `json:"chest"`
	Hips   string `json:"hips"`
}

// PhotoUploadRequest asks for a presigned photo upload slot.
type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// PhotoConfirmRequest reports a completed upload.
type PhotoConfirmRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

func (r *ProgressRecordRequest) toInput(c *gin.Context) (service.ProgressInput, bool) {
	recordDate, err := time.Parse("2006-01-02", r.RecordDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid record date format, expected YYYY-MM-DD")
		return service.ProgressInput{}, false
	}

	input := service.ProgressInput{
		RecordDate: recordDate,
		Notes:      r.Notes,
	}

	fields := []struct {
		raw  string
		dest **float64
		name string
	}{
		{r.Weight, &input.Weight, "weight"},
		{r.BodyFat, &input.BodyFat, "bodyFat"},
		{r.MuscleMass, &input.MuscleMass, "muscleMass"},
	}
	for _, f := range fields {
		v, err := parseOptionalFloat(f.raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %v", f.name, err))
			return service.ProgressInput{}, false
		}
		*f.dest = v
	}

	if r.Measurements != nil {
		m := &domain.Measurements{}
		mFields := []struct {
			raw  string
			dest **float64
			name string
		}{
			{r.Measurements.Biceps, &m.Biceps, "biceps"},
			{r.Measurements.Waist, &m.Waist, "waist"},
			{r.Measurements.Thigh, &m.Thigh, "thigh"},
			{r.Measurements.Chest, &m.Chest, "chest"},
			{r.Measurements.Hips, &m.Hips, "hips"},
		}
		for _, f := range mFields {
			v, err := parseOptionalFloat(f.raw)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid measurement %s: %v", f.name, err))
				return service.ProgressInput{}, false
			}
			*f.dest = v
		}
		input.Measurements = m
	}

	return input, true
}

// --- Handler Methods ---

// CreateRecord handles POST /trainer/students/:studentId/progress.
func (h *ProgressHandler) CreateRecord(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	studentID, ok := objectIDParam(c, "studentId")
	if !ok {
		return
	}

	var req ProgressRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	record, err := h.progressService.CreateRecord(c.Request.Context(), trainerID, studentID, input)
	if err != nil {
		respondProgressError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetRecords handles GET /trainer/students/:studentId/progress, ordered by
// record date ascending.
func (h *ProgressHandler) GetRecords(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	studentID, ok := objectIDParam(c, "studentId")
	if !ok {
		return
	}

	records, err := h.progressService.GetRecords(c.Request.Context(), trainerID, studentID)
	if err != nil {
		respondProgressError(c, err)
		return
	}

	if records == nil {
		records = []domain.ProgressRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// GetChartSeries handles GET /trainer/students/:studentId/progress/chart.
func (h *ProgressHandler) GetChartSeries(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	studentID, ok := objectIDParam(c, "studentId")
	if !ok {
		return
	}

	series, err := h.progressService.GetChartSeries(c.Request.Context(), trainerID, studentID)
	if err != nil {
		respondProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// UpdateRecord handles PUT /trainer/progress/:recordId.
func (h *ProgressHandler) UpdateRecord(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	recordID, ok := objectIDParam(c, "recordId")
	if !ok {
		return
	}

	var req ProgressRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, ok := req.toInput(c)
	if !ok {
		return
	}

	record, err := h.progressService.UpdateRecord(c.Request.Context(), trainerID, recordID, input)
	if err != nil {
		respondProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// RequestPhotoUpload handles POST /trainer/progress/:recordId/photo/upload-url.
func (h *ProgressHandler) RequestPhotoUpload(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	recordID, ok := objectIDParam(c, "recordId")
	if !ok {
		return
	}

	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.progressService.RequestPhotoUploadURL(c.Request.Context(), trainerID, recordID, req.ContentType)
	if err != nil {
		respondProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmPhoto handles POST /trainer/progress/:recordId/photo/confirm.
func (h *ProgressHandler) ConfirmPhoto(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	recordID, ok := objectIDParam(c, "recordId")
	if !ok {
		return
	}

	var req PhotoConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	record, err := h.progressService.ConfirmPhoto(c.Request.Context(), trainerID, recordID, req.ObjectKey)
	if err != nil {
		respondProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetPhotoURL handles GET /trainer/progress/:recordId/photo.
func (h *ProgressHandler) GetPhotoURL(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	recordID, ok := objectIDParam(c, "recordId")
	if !ok {
		return
	}

	url, err := h.progressService.GetPhotoDownloadURL(c.Request.Context(), trainerID, recordID)
	if err != nil {
		respondProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

func respondProgressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgressNotFound), errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrPhotoMissing):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStudentAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrProgressValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
