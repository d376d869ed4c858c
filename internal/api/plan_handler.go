package api

import (
	"errors"
	"fmt"
	"net/http"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

// PlanRequest covers both create and update of a workout plan.
type PlanRequest struct {
	StudentID     string           `json:"studentId" binding:"required"`
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	DurationWeeks int              `json:"durationWeeks" binding:"required,min=1"`
	DaysPerWeek   int              `json:"daysPerWeek" binding:"required,min=1,max=7"`
	Level         domain.PlanLevel `json:"level" binding:"required,oneof=beginner intermediate advanced"`
}

// PlanExerciseRequest covers create and update of a day/order slot.
type PlanExerciseRequest struct {
	ExerciseID  string `json:"exerciseId" binding:"required"`
	Day         int    `json:"day" binding:"required,min=1"`
	Order       int    `json:"order" binding:"min=0"`
	Sets        int    `json:"sets" binding:"required,min=1"`
	Reps        string `json:"reps" binding:"required"`
	Load        string `json:"load"`
	RestSeconds int    `json:"restSeconds" binding:"min=0"`
	Notes       string `json:"notes"`
}

// --- Handler Methods ---

// CreatePlan handles POST /trainer/plans.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	input, ok := h.buildPlanInput(c)
	if !ok {
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), trainerID, input)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// GetPlans handles GET /trainer/plans.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	plans, err := h.planService.GetActivePlans(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout plans.")
		return
	}

	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlanByID handles GET /trainer/plans/:planId.
func (h *PlanHandler) GetPlanByID(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlanByID(c.Request.Context(), trainerID, planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// UpdatePlan handles PUT /trainer/plans/:planId.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}

	input, ok := h.buildPlanInput(c)
	if !ok {
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), trainerID, planID, input)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeactivatePlan handles DELETE /trainer/plans/:planId. Soft delete, same
// lifecycle as students.
func (h *PlanHandler) DeactivatePlan(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}

	if err := h.planService.DeactivatePlan(c.Request.Context(), trainerID, planID); err != nil {
		respondPlanError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddExerciseToPlan handles POST /trainer/plans/:planId/exercises.
func (h *PlanHandler) AddExerciseToPlan(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}

	input, ok := h.buildPlanExerciseInput(c)
	if !ok {
		return
	}

	pe, err := h.planService.AddExerciseToPlan(c.Request.Context(), trainerID, planID, input)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pe)
}

// GetPlanExercises handles GET /trainer/plans/:planId/exercises, ordered by
// day then position.
func (h *PlanHandler) GetPlanExercises(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}

	details, err := h.planService.GetPlanExercises(c.Request.Context(), trainerID, planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetPlanDays handles GET /trainer/plans/:planId/days, the day-tab grouping
// used by the plan detail screen.
func (h *PlanHandler) GetPlanDays(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}

	days, err := h.planService.GetPlanDays(c.Request.Context(), trainerID, planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, days)
}

// UpdatePlanExercise handles PUT /trainer/plan-exercises/:planExerciseId.
func (h *PlanHandler) UpdatePlanExercise(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	planExerciseID, ok := objectIDParam(c, "planExerciseId")
	if !ok {
		return
	}

	input, ok := h.buildPlanExerciseInput(c)
	if !ok {
		return
	}

	pe, err := h.planService.UpdatePlanExercise(c.Request.Context(), trainerID, planExerciseID, input)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, pe)
}

// RemovePlanExercise handles DELETE /trainer/plan-exercises/:planExerciseId.
// This is a hard delete; the slot is gone from its day permanently.
func (h *PlanHandler) RemovePlanExercise(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	planExerciseID, ok := objectIDParam(c, "planExerciseId")
	if !ok {
		return
	}

	if err := h.planService.RemovePlanExercise(c.Request.Context(), trainerID, planExerciseID); err != nil {
		respondPlanError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Helpers ---

func (h *PlanHandler) buildPlanInput(c *gin.Context) (service.PlanInput, bool) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return service.PlanInput{}, false
	}

	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid studentId format.")
		return service.PlanInput{}, false
	}

	return service.PlanInput{
		StudentID:     studentID,
		Name:          req.Name,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
		DaysPerWeek:   req.DaysPerWeek,
		Level:         req.Level,
	}, true
}

func (h *PlanHandler) buildPlanExerciseInput(c *gin.Context) (service.PlanExerciseInput, bool) {
	var req PlanExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return service.PlanExerciseInput{}, false
	}

	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format.")
		return service.PlanExerciseInput{}, false
	}

	return service.PlanExerciseInput{
		ExerciseID:  exerciseID,
		Day:         req.Day,
		Order:       req.Order,
		Sets:        req.Sets,
		Reps:        req.Reps,
		Load:        req.Load,
		RestSeconds: req.RestSeconds,
		Notes:       req.Notes,
	}, true
}

func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrPlanExerciseNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrStudentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied), errors.Is(err, service.ErrStudentAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
