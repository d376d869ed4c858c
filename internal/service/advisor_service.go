package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"evolvefit/coach-app/internal/advisor"
	"evolvefit/coach-app/internal/domain"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	// ErrAdvisoryParse means the provider answered but not with valid JSON.
	// The message is part of the advisory error contract.
	ErrAdvisoryParse    = errors.New("Erro ao processar resposta da IA")
	ErrQuestionRequired = errors.New("question is required")
	ErrStudentRequired  = errors.New("student name is required")
)

// FlexInt unmarshals from both a JSON number and a numeric string. Web
// clients send form values like "3" where an integer is meant.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer value %q", s)
	}
	*f = FlexInt(n)
	return nil
}

// FlexFloat is the float counterpart of FlexInt.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

// --- Wire Types ---

// WorkoutStudent is the student snapshot the client sends along with a
// workout generation request. Field names follow the client form payload.
type WorkoutStudent struct {
	ID       string     `json:"id"`
	Nome     string     `json:"nome"`
	Objetivo string     `json:"objetivo,omitempty"`
	Altura   *FlexFloat `json:"altura,omitempty"`
	Peso     *FlexFloat `json:"peso,omitempty"`
}

// WorkoutPreferences carries the requested plan parameters.
type WorkoutPreferences struct {
	Goal      string  `json:"goal"`
	Duration  FlexInt `json:"duration"`
	Frequency FlexInt `json:"frequency"`
	Level     string  `json:"level"`
}

// WorkoutRequest is the generate-workout request body.
type WorkoutRequest struct {
	Student     WorkoutStudent     `json:"student"`
	Preferences WorkoutPreferences `json:"preferences"`
}

// ProgressEntry is one progress record as the client submits it for analysis.
type ProgressEntry struct {
	Date         string               `json:"date"`
	Weight       *float64             `json:"weight,omitempty"`
	BodyFat      *float64             `json:"bodyFat,omitempty"`
	MuscleMass   *float64             `json:"muscleMass,omitempty"`
	Measurements *domain.Measurements `json:"measurements,omitempty"`
	Notes        string               `json:"notes,omitempty"`
}

// ProgressData is the payload analyzed by analyze-progress. It is
// interpolated into the prompt as pretty-printed JSON.
type ProgressData struct {
	Student string          `json:"student,omitempty"`
	Records []ProgressEntry `json:"records"`
}

// ProgressRequest is the analyze-progress request body.
type ProgressRequest struct {
	Progress ProgressData `json:"progress"`
}

// AdviceRequest is the general-advice request body. Context is free-form and
// forwarded to the model as pretty-printed JSON when present.
type AdviceRequest struct {
	Question string `json:"question"`
	Context  any    `json:"context,omitempty"`
}

// AdvisoryMetrics summarizes a progress analysis.
type AdvisoryMetrics struct {
	Trend     string   `json:"trend"` // positiva, negativa or estável
	Score     float64  `json:"score"`
	NextGoals []string `json:"next_goals"`
}

// AdvisoryExercise is one model-suggested exercise slot.
type AdvisoryExercise struct {
	Name         string  `json:"name"`
	MuscleGroup  string  `json:"muscle_group,omitempty"`
	Equipment    string  `json:"equipment,omitempty"`
	Sets         FlexInt `json:"sets,omitempty"`
	Reps         string  `json:"reps,omitempty"`
	Rest         FlexInt `json:"rest,omitempty"`
	Instructions string  `json:"instructions,omitempty"`
	Day          FlexInt `json:"day,omitempty"`
	Order        FlexInt `json:"order,omitempty"`
}

// AdvisoryResult is the common response shape of the three advisory
// endpoints. Exercises is populated only by workout generation, Metrics only
// by progress analysis.
type AdvisoryResult struct {
	Response    string             `json:"response"`
	Suggestions []string           `json:"suggestions,omitempty"`
	Metrics     *AdvisoryMetrics   `json:"metrics,omitempty"`
	Exercises   []AdvisoryExercise `json:"exercises,omitempty"`
}

// --- Prompt Templates ---

const (
	workoutSystemPrompt  = "Você é um personal trainer especializado em criar planos de treino personalizados. Sempre retorne respostas em JSON válido."
	progressSystemPrompt = "Você é um personal trainer especializado em análise de progresso. Sempre retorne respostas em JSON válido."
	adviceSystemPrompt   = "Você é um personal trainer especializado e consultor de fitness. Forneça conselhos práticos e baseados em ciência. Sempre retorne respostas em JSON válido."

	workoutMaxTokens  = 2000
	progressMaxTokens = 1500
	adviceMaxTokens   = 1000
)

const workoutPromptTemplate = `Você é um personal trainer especializado. Crie um plano de treino detalhado para:

ALUNO:
- Nome: %s
- Objetivo: %s
- Altura: %sm
- Peso: %skg
- Nível: %s

PARÂMETROS DO TREINO:
- Foco: %s
- Duração: %d semanas
- Frequência: %dx por semana
- Nível: %s

Retorne um JSON com o seguinte formato:
{
  "response": "Descrição geral do plano de treino (2-3 parágrafos)",
  "suggestions": ["Sugestão 1", "Sugestão 2", "Sugestão 3"],
  "exercises": [
    {
      "name": "Nome do exercício",
      "muscle_group": "Grupo muscular",
      "equipment": "Equipamento necessário",
      "sets": 3,
      "reps": "10-12",
      "rest": 60,
      "instructions": "Como executar",
      "day": 1,
      "order": 1
    }
  ]
}

IMPORTANTE:
- Inclua pelo menos %d exercícios distribuídos nos dias
- Varie os exercícios por grupo muscular
- Adapte a intensidade ao nível do aluno`

const progressPromptTemplate = `Você é um personal trainer especializado em análise de progresso. Analise os dados abaixo:

DADOS DE PROGRESSO:
%s

Retorne um JSON com o seguinte formato:
{
  "response": "Análise detalhada do progresso (2-3 parágrafos)",
  "suggestions": ["Sugestão 1", "Sugestão 2", "Sugestão 3"],
  "metrics": {
    "trend": "positiva|negativa|estável",
    "score": 85,
    "next_goals": ["Meta 1", "Meta 2", "Meta 3"]
  }
}`

const advicePromptTemplate = `%s

%s

Retorne um JSON com o seguinte formato:
{
  "response": "Sua resposta detalhada",
  "suggestions": ["Sugestão opcional 1", "Sugestão opcional 2"]
}`

// --- Service Interface ---

// AdvisorService proxies structured requests to the model provider. Each
// operation makes exactly one upstream call, no retry, no caching; any
// failure is terminal for that request.
type AdvisorService interface {
	GenerateWorkout(ctx context.Context, req WorkoutRequest) (*AdvisoryResult, error)
	AnalyzeProgress(ctx context.Context, req ProgressRequest) (*AdvisoryResult, error)
	GeneralAdvice(ctx context.Context, req AdviceRequest) (*AdvisoryResult, error)
}

// --- Service Implementation ---

type advisorService struct {
	chat advisor.ChatClient
}

// NewAdvisorService creates a new instance of advisorService.
func NewAdvisorService(chat advisor.ChatClient) AdvisorService {
	return &advisorService{chat: chat}
}

// GenerateWorkout builds the workout-generation prompt and relays the model's
// plan. The prompt asks for at least frequency x 4 exercises spread across
// the training days.
func (s *advisorService) GenerateWorkout(ctx context.Context, req WorkoutRequest) (*AdvisoryResult, error) {
	if req.Student.Nome == "" {
		return nil, ErrStudentRequired
	}

	objective := req.Student.Objetivo
	if objective == "" {
		objective = req.Preferences.Goal
	}

	log.WithFields(log.Fields{"student": req.Student.Nome, "goal": req.Preferences.Goal}).Info("Gerando treino")

	prompt := fmt.Sprintf(workoutPromptTemplate,
		req.Student.Nome,
		objective,
		formatOptionalMetric(req.Student.Altura),
		formatOptionalMetric(req.Student.Peso),
		req.Preferences.Level,
		req.Preferences.Goal,
		int(req.Preferences.Duration),
		int(req.Preferences.Frequency),
		req.Preferences.Level,
		int(req.Preferences.Frequency)*4,
	)

	return s.complete(ctx, workoutSystemPrompt, prompt, workoutMaxTokens)
}

// AnalyzeProgress interpolates the submitted records into the analysis prompt
// as pretty-printed JSON. An empty records array still goes upstream; the
// client decides whether an empty history is worth asking about.
func (s *advisorService) AnalyzeProgress(ctx context.Context, req ProgressRequest) (*AdvisoryResult, error) {
	if req.Progress.Records == nil {
		req.Progress.Records = []ProgressEntry{}
	}

	data, err := json.MarshalIndent(req.Progress, "", "  ")
	if err != nil {
		return nil, err
	}

	log.WithField("records", len(req.Progress.Records)).Info("Analisando progresso do aluno")

	prompt := fmt.Sprintf(progressPromptTemplate, string(data))
	return s.complete(ctx, progressSystemPrompt, prompt, progressMaxTokens)
}

// GeneralAdvice forwards a free-text fitness question, optionally with
// caller-supplied context.
func (s *advisorService) GeneralAdvice(ctx context.Context, req AdviceRequest) (*AdvisoryResult, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, ErrQuestionRequired
	}

	// The line stays in the prompt even without context, leaving an extra
	// blank line where the block would be.
	contextBlock := ""
	if req.Context != nil {
		data, err := json.MarshalIndent(req.Context, "", "  ")
		if err != nil {
			return nil, err
		}
		contextBlock = fmt.Sprintf("CONTEXTO ADICIONAL:\n%s", string(data))
	}

	log.WithField("question", req.Question).Info("Processando consulta geral")

	prompt := fmt.Sprintf(advicePromptTemplate, req.Question, contextBlock)
	return s.complete(ctx, adviceSystemPrompt, prompt, adviceMaxTokens)
}

func (s *advisorService) complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (*AdvisoryResult, error) {
	content, err := s.chat.Complete(ctx, systemPrompt, userPrompt, maxTokens)
	if err != nil {
		return nil, err
	}

	var result AdvisoryResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		log.WithError(err).WithField("content", content).Error("resposta da IA não é JSON válido")
		return nil, ErrAdvisoryParse
	}
	return &result, nil
}

// formatOptionalMetric renders an optional body metric for the prompt.
func formatOptionalMetric(v *FlexFloat) string {
	if v == nil || *v == 0 {
		return "não informado"
	}
	return strconv.FormatFloat(float64(*v), 'f', -1, 64)
}
