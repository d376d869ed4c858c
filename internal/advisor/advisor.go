package advisor

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no provider API key is available.
// The message is part of the advisory error contract surfaced to callers.
var ErrNotConfigured = errors.New("OPENAI_API_KEY não configurada")

// UpstreamError carries a non-success response from the model provider.
// Error() deliberately exposes only the status; the body goes to logs.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Erro na API OpenAI: %d", e.StatusCode)
}

// ChatClient defines the interface for a single-shot chat completion against
// the model provider. Implementations request JSON-mode output: the returned
// string is expected to be a JSON object, but parsing it is the caller's
// concern.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}
