package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/metrics"
	"evolvefit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// PortalHandler serves the student-facing endpoints. The student row is
// resolved from the authenticated account's email on every request.
type PortalHandler struct {
	portalService service.PortalService
	metrics       *metrics.Manager
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(portalService service.PortalService, metricsManager *metrics.Manager) *PortalHandler {
	return &PortalHandler{
		portalService: portalService,
		metrics:       metricsManager,
	}
}

// ExecutionRequest is the body the student posts after performing an
// exercise: one entry per set done.
type ExecutionRequest struct {
	Sets        []service.SetEntry `json:"sets" binding:"required,min=1"`
	Notes       string             `json:"notes"`
	PerformedAt *time.Time         `json:"performedAt"`
}

// GetDashboard handles GET /portal/dashboard.
func (h *PortalHandler) GetDashboard(c *gin.Context) {
	email, ok := portalEmail(c)
	if !ok {
		return
	}

	dashboard, err := h.portalService.GetDashboard(c.Request.Context(), email)
	if err != nil {
		respondPortalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetMyPlans handles GET /portal/plans.
func (h *PortalHandler) GetMyPlans(c *gin.Context) {
	email, ok := portalEmail(c)
	if !ok {
		return
	}

	plans, err := h.portalService.GetMyPlans(c.Request.Context(), email)
	if err != nil {
		respondPortalError(c, err)
		return
	}

	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetMyPlanDays handles GET /portal/plans/:planId/days, the same day-tab
// grouping the trainer sees on the plan detail screen.
func (h *PortalHandler) GetMyPlanDays(c *gin.Context) {
	email, ok := portalEmail(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}

	days, err := h.portalService.GetMyPlanDays(c.Request.Context(), email, planID)
	if err != nil {
		respondPortalError(c, err)
		return
	}

	c.JSON(http.StatusOK, days)
}

// GetMyProgress handles GET /portal/progress.
func (h *PortalHandler) GetMyProgress(c *gin.Context) {
	email, ok := portalEmail(c)
	if !ok {
		return
	}

	records, err := h.portalService.GetMyProgress(c.Request.Context(), email)
	if err != nil {
		respondPortalError(c, err)
		return
	}

	if records == nil {
		records = []domain.ProgressRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// GetMyChartSeries handles GET /portal/progress/chart.
func (h *PortalHandler) GetMyChartSeries(c *gin.Context) {
	email, ok := portalEmail(c)
	if !ok {
		return
	}

	series, err := h.portalService.GetMyChartSeries(c.Request.Context(), email)
	if err != nil {
		respondPortalError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// GetSetGrid handles GET /portal/plan-exercises/:planExerciseId/grid. It
// returns the per-set input rows, prefilled with set numbers and the
// prescribed load.
func (h *PortalHandler) GetSetGrid(c *gin.Context) {
	email, ok := portalEmail(c)
	if !ok {
		return
	}
	planExerciseID, ok := objectIDParam(c, "planExerciseId")
	if !ok {
		return
	}

	grid, err := h.portalService.BuildSetGrid(c.Request.Context(), email, planExerciseID)
	if err != nil {
		respondPortalError(c, err)
		return
	}

	c.JSON(http.StatusOK, grid)
}

// RecordExecution handles POST /portal/plan-exercises/:planExerciseId/executions.
func (h *PortalHandler) RecordExecution(c *gin.Context) {
	email, ok := portalEmail(c)
	if !ok {
		return
	}
	planExerciseID, ok := objectIDParam(c, "planExerciseId")
	if !ok {
		return
	}

	var req ExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.ExecutionInput{
		Sets:  req.Sets,
		Notes: req.Notes,
	}
	if req.PerformedAt != nil {
		input.PerformedAt = *req.PerformedAt
	}

	entry, err := h.portalService.RecordExecution(c.Request.Context(), email, planExerciseID, input)
	if err != nil {
		respondPortalError(c, err)
		return
	}

	h.metrics.CounterExecutionLogs.Inc()
	c.JSON(http.StatusCreated, entry)
}

// GetExerciseExecutions handles GET /portal/plan-exercises/:planExerciseId/executions.
// Past logs for the exercise, newest first.
func (h *PortalHandler) GetExerciseExecutions(c *gin.Context) {
	email, ok := portalEmail(c)
	if !ok {
		return
	}
	planExerciseID, ok := objectIDParam(c, "planExerciseId")
	if !ok {
		return
	}

	history, err := h.portalService.GetExerciseExecutions(c.Request.Context(), email, planExerciseID)
	if err != nil {
		respondPortalError(c, err)
		return
	}

	if history == nil {
		history = []domain.ExecutionLog{}
	}
	c.JSON(http.StatusOK, history)
}

// GetExecutionHistory handles GET /portal/executions, newest first.
func (h *PortalHandler) GetExecutionHistory(c *gin.Context) {
	email, ok := portalEmail(c)
	if !ok {
		return
	}

	history, err := h.portalService.GetExecutionHistory(c.Request.Context(), email)
	if err != nil {
		respondPortalError(c, err)
		return
	}

	if history == nil {
		history = []domain.ExecutionLog{}
	}
	c.JSON(http.StatusOK, history)
}

func portalEmail(c *gin.Context) (string, bool) {
	email, err := getUserEmailFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify student from token.")
		return "", false
	}
	return email, true
}

func respondPortalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentProfileNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrPlanExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrExecutionValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
