package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"evolvefit/coach-app/internal/advisor"
	"evolvefit/coach-app/internal/metrics"
	"evolvefit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeAdvisorService struct {
	result *service.AdvisoryResult
	err    error
}

func (f *fakeAdvisorService) GenerateWorkout(context.Context, service.WorkoutRequest) (*service.AdvisoryResult, error) {
	return f.result, f.err
}

func (f *fakeAdvisorService) AnalyzeProgress(context.Context, service.ProgressRequest) (*service.AdvisoryResult, error) {
	return f.result, f.err
}

func (f *fakeAdvisorService) GeneralAdvice(context.Context, service.AdviceRequest) (*service.AdvisoryResult, error) {
	return f.result, f.err
}

func newAdvisorTestRouter(svc service.AdvisorService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware())

	handler := NewAdvisorHandler(svc, metrics.NewTestManager())
	ai := router.Group("/api/v1/ai")
	ai.POST("/generate-workout", handler.GenerateWorkout)
	ai.POST("/analyze-progress", handler.AnalyzeProgress)
	ai.POST("/general-advice", handler.GeneralAdvice)
	return router
}

func TestAdvisorHandler_GeneralAdviceSuccess(t *testing.T) {
	svc := &fakeAdvisorService{result: &service.AdvisoryResult{
		Response:    "Treine com progressão de carga.",
		Suggestions: []string{"Durma 8 horas"},
	}}
	router := newAdvisorTestRouter(svc)

	body := `{"question": "Como melhorar a hipertrofia muscular?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/general-advice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	var result service.AdvisoryResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.NotEmpty(t, result.Response)
	require.Equal(t, []string{"Durma 8 horas"}, result.Suggestions)
}

func TestAdvisorHandler_UpstreamFailureIs500WithErrorEnvelope(t *testing.T) {
	svc := &fakeAdvisorService{err: &advisor.UpstreamError{StatusCode: 429, Body: "rate limited"}}
	router := newAdvisorTestRouter(svc)

	body := `{"question": "Como melhorar a hipertrofia muscular?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/general-advice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var envelope struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.Equal(t, "Erro na API OpenAI: 429", envelope.Error)
}

func TestAdvisorHandler_MissingKeyIs500WithConfigError(t *testing.T) {
	svc := &fakeAdvisorService{err: advisor.ErrNotConfigured}
	router := newAdvisorTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/analyze-progress", strings.NewReader(`{"progress": {"records": []}}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Contains(t, rr.Body.String(), "OPENAI_API_KEY não configurada")
}

func TestAdvisorHandler_MalformedBodyIs500(t *testing.T) {
	svc := &fakeAdvisorService{result: &service.AdvisoryResult{Response: "ok"}}
	router := newAdvisorTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/generate-workout", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	// The advisory contract is flat: every failure is a 500 {error} envelope.
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Contains(t, rr.Body.String(), "error")
}

func TestAdvisorHandler_CORSPreflight(t *testing.T) {
	router := newAdvisorTestRouter(&fakeAdvisorService{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ai/generate-workout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "authorization, x-client-info, apikey, content-type", rr.Header().Get("Access-Control-Allow-Headers"))
}
