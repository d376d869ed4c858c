package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentHandler holds the student service dependency.
type StudentHandler struct {
	studentService service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// --- DTOs ---

// StudentRequest covers both create and update. Height and weight arrive as
// form strings ("1.75", "70.0") and persist as numbers; empty means unset.
type StudentRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate" binding:"omitempty,datetime=2006-01-02"`
	Height    string `json:"height"`
	Weight    string `json:"weight"`
	Goal      string `json:"goal"`
	Notes     string `json:"notes"`
}

// StudentResponse mirrors the form representation: numeric fields render back
// as the strings the edit form displays.
type StudentResponse struct {
	ID        string    `json:"id"`
	TrainerID string    `json:"trainerId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	BirthDate string    `json:"birthDate,omitempty"`
	Height    string    `json:"height,omitempty"`
	Weight    string    `json:"weight,omitempty"`
	Goal      string    `json:"goal,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MapStudentToResponse converts a domain.Student to StudentResponse DTO.
func MapStudentToResponse(st *domain.Student) StudentResponse {
	if st == nil {
		return StudentResponse{}
	}
	resp := StudentResponse{
		ID:        st.ID.Hex(),
		TrainerID: st.TrainerID.Hex(),
		Name:      st.Name,
		Email:     st.Email,
		Phone:     st.Phone,
		Height:    formatDecimal(st.Height),
		Weight:    formatDecimal(st.Weight),
		Goal:      st.Goal,
		Notes:     st.Notes,
		Active:    st.Active,
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
	if st.BirthDate != nil {
		resp.BirthDate = st.BirthDate.Format("2006-01-02")
	}
	return resp
}

// MapStudentsToResponse converts a slice of domain.Student to DTOs.
func MapStudentsToResponse(students []domain.Student) []StudentResponse {
	responses := make([]StudentResponse, len(students))
	for i, st := range students {
		responses[i] = MapStudentToResponse(&st)
	}
	return responses
}

// parseOptionalFloat turns a form string into a numeric pointer. Empty input
// means the field was left blank.
func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric value %q", s)
	}
	return &v, nil
}

// formatDecimal renders a numeric pointer back to its form string with at
// least one decimal place, so 70 round-trips as "70.0" and 1.75 as "1.75".
func formatDecimal(v *float64) string {
	if v == nil {
		return ""
	}
	s := strconv.FormatFloat(*v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

func (h *StudentHandler) buildInput(c *gin.Context) (service.StudentInput, bool) {
	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return service.StudentInput{}, false
	}

	input := service.StudentInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Goal:  req.Goal,
		Notes: req.Notes,
	}

	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid birth date format, expected YYYY-MM-DD")
			return service.StudentInput{}, false
		}
		input.BirthDate = &birthDate
	}

	height, err := parseOptionalFloat(req.Height)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid height: "+err.Error())
		return service.StudentInput{}, false
	}
	input.Height = height

	weight, err := parseOptionalFloat(req.Weight)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weight: "+err.Error())
		return service.StudentInput{}, false
	}
	input.Weight = weight

	return input, true
}

// --- Handler Methods ---

// CreateStudent handles POST /trainer/students.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	input, ok := h.buildInput(c)
	if !ok {
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), trainerID, input)
	if err != nil {
		if errors.Is(err, service.ErrStudentValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create student.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapStudentToResponse(student))
}

// GetStudents handles GET /trainer/students. Deactivated students are
// excluded; fetch them by ID instead.
func (h *StudentHandler) GetStudents(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	students, err := h.studentService.GetActiveStudents(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve students.")
		return
	}

	c.JSON(http.StatusOK, MapStudentsToResponse(students))
}

// GetStudentByID handles GET /trainer/students/:studentId.
func (h *StudentHandler) GetStudentByID(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	studentID, ok := objectIDParam(c, "studentId")
	if !ok {
		return
	}

	student, err := h.studentService.GetStudentByID(c.Request.Context(), trainerID, studentID)
	if err != nil {
		respondStudentError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapStudentToResponse(student))
}

// UpdateStudent handles PUT /trainer/students/:studentId.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	studentID, ok := objectIDParam(c, "studentId")
	if !ok {
		return
	}

	input, ok := h.buildInput(c)
	if !ok {
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), trainerID, studentID, input)
	if err != nil {
		respondStudentError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapStudentToResponse(student))
}

// DeactivateStudent handles DELETE /trainer/students/:studentId. The row
// survives with active=false.
func (h *StudentHandler) DeactivateStudent(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	studentID, ok := objectIDParam(c, "studentId")
	if !ok {
		return
	}

	if err := h.studentService.DeactivateStudent(c.Request.Context(), trainerID, studentID); err != nil {
		respondStudentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStudentAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrStudentValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

// --- Shared param helpers ---

// trainerIDFromContext resolves the authenticated trainer's ObjectID, writing
// the error response itself on failure.
func trainerIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// objectIDParam parses a path parameter as an ObjectID.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format.", name))
		return primitive.NilObjectID, false
	}
	return id, true
}
