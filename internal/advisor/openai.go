package advisor

import (
	"context"
	"errors"
	"fmt"

	"evolvefit/coach-app/internal/config"

	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const defaultModel = "gpt-5-mini-2025-08-07"

// openAIClient implements the ChatClient interface using the OpenAI API.
type openAIClient struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIClient creates a chat client from configuration. A missing API key
// is not fatal here: the key is validated on every Complete call so that each
// advisory invocation fails individually with a configuration error.
func NewOpenAIClient(cfg config.OpenAIConfig) ChatClient {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	var client *openai.Client
	if cfg.APIKey != "" {
		client = openai.NewClient(cfg.APIKey)
	}

	log.Infof("OpenAI client initialized, model: %s, key configured: %t", model, cfg.APIKey != "")

	return &openAIClient{
		client: client,
		apiKey: cfg.APIKey,
		model:  model,
	}
}

// Complete performs exactly one chat-completion call requesting JSON-mode
// output. No retries, no backoff: failure is terminal for the request.
func (c *openAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if c.apiKey == "" || c.client == nil {
		return "", ErrNotConfigured
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxCompletionTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			log.Errorf("OpenAI API error: status=%d message=%s", apiErr.HTTPStatusCode, apiErr.Message)
			return "", &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		log.Errorf("OpenAI call failed: %v", err)
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("API OpenAI retornou conteúdo vazio")
	}

	return resp.Choices[0].Message.Content, nil
}
