package api

import (
	"errors"
	"net/http"

	"evolvefit/coach-app/internal/advisor"
	"evolvefit/coach-app/internal/metrics"
	"evolvefit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AdvisorHandler serves the three advisory proxy endpoints. The error
// contract is deliberately flat: any failure, from a malformed body to an
// upstream rejection, answers 500 with a single {error} envelope.
type AdvisorHandler struct {
	advisorService service.AdvisorService
	metrics        *metrics.Manager
}

// NewAdvisorHandler creates a new AdvisorHandler.
func NewAdvisorHandler(advisorService service.AdvisorService, metricsManager *metrics.Manager) *AdvisorHandler {
	return &AdvisorHandler{
		advisorService: advisorService,
		metrics:        metricsManager,
	}
}

// GenerateWorkout handles POST /ai/generate-workout.
func (h *AdvisorHandler) GenerateWorkout(c *gin.Context) {
	h.metrics.CounterAdvisoryRequests.WithLabelValues("generate-workout").Inc()

	var req service.WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "generate-workout", err)
		return
	}

	result, err := h.advisorService.GenerateWorkout(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "generate-workout", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyzeProgress handles POST /ai/analyze-progress.
func (h *AdvisorHandler) AnalyzeProgress(c *gin.Context) {
	h.metrics.CounterAdvisoryRequests.WithLabelValues("analyze-progress").Inc()

	var req service.ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "analyze-progress", err)
		return
	}

	result, err := h.advisorService.AnalyzeProgress(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "analyze-progress", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GeneralAdvice handles POST /ai/general-advice.
func (h *AdvisorHandler) GeneralAdvice(c *gin.Context) {
	h.metrics.CounterAdvisoryRequests.WithLabelValues("general-advice").Inc()

	var req service.AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "general-advice", err)
		return
	}

	result, err := h.advisorService.GeneralAdvice(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "general-advice", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdvisorHandler) fail(c *gin.Context, endpoint string, err error) {
	h.metrics.CounterAdvisoryFailures.WithLabelValues(endpoint, failureKind(err)).Inc()
	log.WithError(err).WithField("endpoint", endpoint).Error("advisory request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func failureKind(err error) string {
	var upstream *advisor.UpstreamError
	switch {
	case errors.Is(err, advisor.ErrNotConfigured):
		return "config"
	case errors.As(err, &upstream):
		return "upstream"
	case errors.Is(err, service.ErrAdvisoryParse):
		return "parse"
	default:
		return "other"
	}
}
