package advisoryclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	titles   []string
	messages []string
}

func (n *recordingNotifier) Notify(title, message string) {
	n.titles = append(n.titles, title)
	n.messages = append(n.messages, message)
}

func TestClient_GetGeneralAdviceSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/ai/general-advice", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Como melhorar a hipertrofia muscular?", body["question"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "Aumente o volume gradualmente.", "suggestions": ["coma proteína"]}`))
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := New(server.URL, WithNotifier(notifier))
	require.Equal(t, StateIdle, client.State())

	result, err := client.GetGeneralAdvice(context.Background(), "Como melhorar a hipertrofia muscular?", nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "Aumente o volume gradualmente.", result.Response)
	require.Equal(t, StateSucceeded, client.State())
	require.Empty(t, notifier.titles)
}

func TestClient_FailureReturnsNilAndNotifies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "Erro na API OpenAI: 429"}`))
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := New(server.URL, WithNotifier(notifier))

	result, err := client.GetGeneralAdvice(context.Background(), "Qualquer pergunta", nil)
	require.Error(t, err)
	require.Nil(t, result)
	require.Contains(t, err.Error(), "Erro na API OpenAI: 429")
	require.Equal(t, StateFailed, client.State())

	// The notification is fixed, independent of the actual error.
	require.Equal(t, []string{"Erro na IA"}, notifier.titles)
	require.Equal(t,
		[]string{"Não foi possível consultar a inteligência artificial. Tente novamente."},
		notifier.messages)
}

func TestClient_AnalyzeProgressSkipsEmptyRecords(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"response": "ok"}`))
	}))
	defer server.Close()

	client := New(server.URL)

	// No records means no network call at all.
	result, err := client.AnalyzeProgress(context.Background(), "Maria", nil)
	require.NoError(t, err)
	require.Nil(t, result)
	require.Equal(t, int32(0), calls.Load())
	require.Equal(t, StateIdle, client.State())

	weight := 80.0
	result, err = client.AnalyzeProgress(context.Background(), "Maria", []ProgressRecord{
		{Date: "2026-02-10", Weight: &weight},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, StateSucceeded, client.State())
}

func TestClient_GenerateWorkoutPlanSendsStudentAndPreferences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/ai/generate-workout", r.URL.Path)

		var body struct {
			Student     Student     `json:"student"`
			Preferences Preferences `json:"preferences"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Maria", body.Student.Nome)
		require.Equal(t, 3, body.Preferences.Frequency)

		_, _ = w.Write([]byte(`{"response": "plano", "exercises": [{"name": "Supino", "sets": 4, "reps": "8-12", "day": 1, "order": 1}]}`))
	}))
	defer server.Close()

	client := New(server.URL)
	result, err := client.GenerateWorkoutPlan(context.Background(),
		Student{ID: "abc", Nome: "Maria", Objetivo: "hipertrofia"},
		Preferences{Goal: "hipertrofia", Duration: 8, Frequency: 3, Level: "intermediate"},
	)
	require.NoError(t, err)
	require.Len(t, result.Exercises, 1)
	require.Equal(t, "Supino", result.Exercises[0].Name)
}
