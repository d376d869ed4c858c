package service

import (
	"context"
	"encoding/json"
	"testing"

	"evolvefit/coach-app/internal/advisor"

	"github.com/stretchr/testify/require"
)

type fakeChatClient struct {
	lastSystemPrompt string
	lastUserPrompt   string
	lastMaxTokens    int
	calls            int

	reply string
	err   error
}

func (f *fakeChatClient) Complete(_ context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	f.calls++
	f.lastSystemPrompt = systemPrompt
	f.lastUserPrompt = userPrompt
	f.lastMaxTokens = maxTokens
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestAdvisorService_FrequencyStringMultipliedInPrompt(t *testing.T) {
	chat := &fakeChatClient{reply: `{"response": "plano"}`}
	svc := NewAdvisorService(chat)

	var req WorkoutRequest
	// Frequency arrives as a form string, duration as a number.
	body := `{
		"student": {"id": "abc", "nome": "Maria", "objetivo": "hipertrofia", "altura": "1.75", "peso": 70},
		"preferences": {"goal": "hipertrofia", "duration": 8, "frequency": "3", "level": "intermediate"}
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	result, err := svc.GenerateWorkout(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "plano", result.Response)

	require.Contains(t, chat.lastUserPrompt, "pelo menos 12 exercícios")
	require.Contains(t, chat.lastUserPrompt, "Frequência: 3x por semana")
	require.Contains(t, chat.lastUserPrompt, "Altura: 1.75m")
	require.Contains(t, chat.lastUserPrompt, "Peso: 70kg")
	require.Equal(t, workoutMaxTokens, chat.lastMaxTokens)
}

func TestAdvisorService_MissingMetricsRenderAsUnknown(t *testing.T) {
	chat := &fakeChatClient{reply: `{"response": "ok"}`}
	svc := NewAdvisorService(chat)

	_, err := svc.GenerateWorkout(context.Background(), WorkoutRequest{
		Student:     WorkoutStudent{ID: "x", Nome: "José"},
		Preferences: WorkoutPreferences{Goal: "força", Duration: 4, Frequency: 2, Level: "beginner"},
	})
	require.NoError(t, err)
	require.Contains(t, chat.lastUserPrompt, "Altura: não informadom")
	require.Contains(t, chat.lastUserPrompt, "Peso: não informadokg")
}

func TestAdvisorService_ParseFailure(t *testing.T) {
	chat := &fakeChatClient{reply: "this is not json"}
	svc := NewAdvisorService(chat)

	_, err := svc.GeneralAdvice(context.Background(), AdviceRequest{Question: "Como melhorar a hipertrofia muscular?"})
	require.ErrorIs(t, err, ErrAdvisoryParse)
	require.EqualError(t, err, "Erro ao processar resposta da IA")
}

func TestAdvisorService_UpstreamErrorSurfacesStatus(t *testing.T) {
	chat := &fakeChatClient{err: &advisor.UpstreamError{StatusCode: 429, Body: "rate limited"}}
	svc := NewAdvisorService(chat)

	_, err := svc.GeneralAdvice(context.Background(), AdviceRequest{Question: "Como melhorar a hipertrofia muscular?"})
	require.Error(t, err)
	require.EqualError(t, err, "Erro na API OpenAI: 429")
}

func TestAdvisorService_AnalyzeProgressEmptyRecordsStillCallsUpstream(t *testing.T) {
	reply := `{"response": "sem dados", "metrics": {"trend": "estável", "score": 0, "next_goals": []}}`
	chat := &fakeChatClient{reply: reply}
	svc := NewAdvisorService(chat)

	result, err := svc.AnalyzeProgress(context.Background(), ProgressRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, chat.calls)
	require.NotNil(t, result.Metrics)
	require.Equal(t, "estável", result.Metrics.Trend)

	// The prompt carries an explicit empty records array.
	require.Contains(t, chat.lastUserPrompt, `"records": []`)
	require.Equal(t, progressMaxTokens, chat.lastMaxTokens)
}

func TestAdvisorService_AnalyzeProgressInterpolatesRecords(t *testing.T) {
	chat := &fakeChatClient{reply: `{"response": "análise"}`}
	svc := NewAdvisorService(chat)

	weight := 80.5
	_, err := svc.AnalyzeProgress(context.Background(), ProgressRequest{
		Progress: ProgressData{
			Student: "Maria",
			Records: []ProgressEntry{{Date: "2026-02-10", Weight: &weight, Notes: "boa semana"}},
		},
	})
	require.NoError(t, err)
	require.Contains(t, chat.lastUserPrompt, `"2026-02-10"`)
	require.Contains(t, chat.lastUserPrompt, "80.5")
	require.Contains(t, chat.lastUserPrompt, "boa semana")
	require.Contains(t, chat.lastSystemPrompt, "análise de progresso")
}

func TestAdvisorService_GeneralAdviceContextBlock(t *testing.T) {
	chat := &fakeChatClient{reply: `{"response": "conselho", "suggestions": ["durma bem"]}`}
	svc := NewAdvisorService(chat)

	result, err := svc.GeneralAdvice(context.Background(), AdviceRequest{
		Question: "Como melhorar a recuperação?",
		Context:  map[string]any{"idade": 31},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"durma bem"}, result.Suggestions)
	require.Contains(t, chat.lastUserPrompt, "CONTEXTO ADICIONAL:")
	require.Contains(t, chat.lastUserPrompt, `"idade": 31`)
	require.Equal(t, adviceMaxTokens, chat.lastMaxTokens)

	// Without context the block's line stays empty, so the question is
	// followed by two blank lines.
	_, err = svc.GeneralAdvice(context.Background(), AdviceRequest{Question: "Qual o melhor horário para treinar?"})
	require.NoError(t, err)
	require.NotContains(t, chat.lastUserPrompt, "CONTEXTO ADICIONAL:")
	require.Contains(t, chat.lastUserPrompt, "Qual o melhor horário para treinar?\n\n\n\nRetorne um JSON")
}

func TestAdvisorService_GeneralAdviceRequiresQuestion(t *testing.T) {
	chat := &fakeChatClient{reply: `{"response": "x"}`}
	svc := NewAdvisorService(chat)

	_, err := svc.GeneralAdvice(context.Background(), AdviceRequest{Question: "   "})
	require.ErrorIs(t, err, ErrQuestionRequired)
	require.Zero(t, chat.calls)
}

func TestAdvisorService_ExerciseShapeTolerant(t *testing.T) {
	// Models sometimes return sets/rest as strings; the result shape takes
	// both.
	reply := `{
		"response": "plano",
		"exercises": [
			{"name": "Supino", "muscle_group": "Peito", "sets": "4", "reps": "8-12", "rest": 90, "day": 1, "order": 1}
		]
	}`
	chat := &fakeChatClient{reply: reply}
	svc := NewAdvisorService(chat)

	result, err := svc.GenerateWorkout(context.Background(), WorkoutRequest{
		Student:     WorkoutStudent{ID: "x", Nome: "Maria"},
		Preferences: WorkoutPreferences{Goal: "hipertrofia", Duration: 8, Frequency: 3, Level: "advanced"},
	})
	require.NoError(t, err)
	require.Len(t, result.Exercises, 1)
	require.Equal(t, FlexInt(4), result.Exercises[0].Sets)
	require.Equal(t, FlexInt(90), result.Exercises[0].Rest)
}
