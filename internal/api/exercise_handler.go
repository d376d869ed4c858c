package api

import (
	"errors"
	"fmt"
	"net/http"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise catalog service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// ExerciseRequest covers create and update of a catalog entry.
type ExerciseRequest struct {
	Name         string `json:"name" binding:"required"`
	MuscleGroup  string `json:"muscleGroup" binding:"required"`
	Equipment    string `json:"equipment"`
	Instructions string `json:"instructions"`
}

// CreateExercise handles POST /exercises. The catalog is shared reference
// data; any trainer can add to it.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req.Name, req.MuscleGroup, req.Equipment, req.Instructions)
	if err != nil {
		if errors.Is(err, service.ErrExerciseValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		}
		return
	}

	c.JSON(http.StatusCreated, exercise)
}

// GetExercises handles GET /exercises, sorted by name.
func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	exercises, err := h.exerciseService.GetExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}

	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExerciseByID handles GET /exercises/:exerciseId.
func (h *ExerciseHandler) GetExerciseByID(c *gin.Context) {
	exerciseID, ok := objectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise handles PUT /exercises/:exerciseId. There is no delete:
// plan exercises may reference any entry.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := objectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), exerciseID, req.Name, req.MuscleGroup, req.Equipment, req.Instructions)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, exercise)
}
