// Package advisoryclient is a small client for the AI advisory endpoints.
// It mirrors the behavior of the web client's advisory hook: one request in
// flight at a time, a fixed failure notification, and a nil result on any
// failure.
package advisoryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// RequestState tracks the lifecycle of the most recent advisory call.
type RequestState int

const (
	StateIdle RequestState = iota
	StateInFlight
	StateSucceeded
	StateFailed
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in-flight"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Fixed failure notification, independent of the actual error.
const (
	failureTitle   = "Erro na IA"
	failureMessage = "Não foi possível consultar a inteligência artificial. Tente novamente."
)

// Notifier receives user-facing notifications. A nil notifier is allowed.
type Notifier interface {
	Notify(title, message string)
}

// Student is the student snapshot sent with a workout generation request.
type Student struct {
	ID       string   `json:"id"`
	Nome     string   `json:"nome"`
	Objetivo string   `json:"objetivo,omitempty"`
	Altura   *float64 `json:"altura,omitempty"`
	Peso     *float64 `json:"peso,omitempty"`
}

// Preferences carries the requested workout parameters.
type Preferences struct {
	Goal      string `json:"goal"`
	Duration  int    `json:"duration"`
	Frequency int    `json:"frequency"`
	Level     string `json:"level"`
}

// ProgressRecord is one progress entry submitted for analysis.
type ProgressRecord struct {
	Date       string   `json:"date"`
	Weight     *float64 `json:"weight,omitempty"`
	BodyFat    *float64 `json:"bodyFat,omitempty"`
	MuscleMass *float64 `json:"muscleMass,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Metrics summarizes a progress analysis.
type Metrics struct {
	Trend     string   `json:"trend"`
	Score     float64  `json:"score"`
	NextGoals []string `json:"next_goals"`
}

// Exercise is one model-suggested exercise.
type Exercise struct {
	Name         string `json:"name"`
	MuscleGroup  string `json:"muscle_group,omitempty"`
	Equipment    string `json:"equipment,omitempty"`
	Sets         int    `json:"sets,omitempty"`
	Reps         string `json:"reps,omitempty"`
	Rest         int    `json:"rest,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Day          int    `json:"day,omitempty"`
	Order        int    `json:"order,omitempty"`
}

// Result is the advisory response shape shared by the three endpoints.
type Result struct {
	Response    string     `json:"response"`
	Suggestions []string   `json:"suggestions,omitempty"`
	Metrics     *Metrics   `json:"metrics,omitempty"`
	Exercises   []Exercise `json:"exercises,omitempty"`
}

// Client calls the advisory endpoints of a coach-app server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	notifier   Notifier

	mu    sync.Mutex
	state RequestState
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithNotifier sets the failure notification sink.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// New creates a Client for the given server base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the state of the most recent advisory call.
func (c *Client) State() RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s RequestState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// GenerateWorkoutPlan asks the server to generate a workout plan.
func (c *Client) GenerateWorkoutPlan(ctx context.Context, student Student, preferences Preferences) (*Result, error) {
	body := map[string]any{
		"student":     student,
		"preferences": preferences,
	}
	return c.call(ctx, "generate-workout", body)
}

// AnalyzeProgress submits progress records for analysis. With no records
// there is nothing to analyze: the call is skipped entirely and both return
// values are nil, leaving the state untouched.
func (c *Client) AnalyzeProgress(ctx context.Context, studentName string, records []ProgressRecord) (*Result, error) {
	if len(records) == 0 {
		return nil, nil
	}

	body := map[string]any{
		"progress": map[string]any{
			"student": studentName,
			"records": records,
		},
	}
	return c.call(ctx, "analyze-progress", body)
}

// GetGeneralAdvice forwards a free-text fitness question with optional
// context data.
func (c *Client) GetGeneralAdvice(ctx context.Context, question string, contextData any) (*Result, error) {
	body := map[string]any{"question": question}
	if contextData != nil {
		body["context"] = contextData
	}
	return c.call(ctx, "general-advice", body)
}

// call performs one POST against an advisory endpoint. Any failure notifies
// the notifier with the fixed message and returns a nil result.
func (c *Client) call(ctx context.Context, endpoint string, body any) (*Result, error) {
	c.setState(StateInFlight)

	result, err := c.doRequest(ctx, endpoint, body)
	if err != nil {
		c.setState(StateFailed)
		if c.notifier != nil {
			c.notifier.Notify(failureTitle, failureMessage)
		}
		return nil, err
	}

	c.setState(StateSucceeded)
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, body any) (*Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/ai/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			return nil, fmt.Errorf("%s: %s", endpoint, envelope.Error)
		}
		return nil, fmt.Errorf("%s: unexpected status %d", endpoint, resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
