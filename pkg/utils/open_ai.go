package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAITransport uses the chat completion API through go-openai. BaseURL can point at any
// OpenAI-compatible server.
type OpenAITransport struct {
	client      *openai.Client
	temperature float32
	maxTokens   int
}

func NewOpenAITransport(apiKey, baseURL string, temperature float32, maxTokens int, httpClient *http.Client) *OpenAITransport {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAITransport{
		client:      openai.NewClientWithConfig(cfg),
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (o *OpenAITransport) Name() string { return "openai" }

func (o *OpenAITransport) Complete(ctx context.Context, req GenerateRequest) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", NewGenerationError(ErrBackendBadResponse, "no choices returned by OpenAI", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// Ping lists models, which needs a valid key but generates nothing.
func (o *OpenAITransport) Ping(ctx context.Context) error {
	if _, err := o.client.ListModels(ctx); err != nil {
		return classifyOpenAIError(err)
	}
	return nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return openAIStatusError(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == 0 {
			return transportError("OpenAI", reqErr.Err)
		}
		return openAIStatusError(reqErr.HTTPStatusCode, reqErr.Error())
	}
	if isUnreachable(err) {
		return transportError("OpenAI", err)
	}
	return NewGenerationError(ErrBackendBadResponse, "unexpected response from OpenAI", err)
}

func openAIStatusError(code int, message string) *GenerationError {
	kind := ErrBackendStatus
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		kind = ErrBackendAuth
	}
	return &GenerationError{
		Kind:       kind,
		Message:    fmt.Sprintf("OpenAI returned status %d: %s", code, message),
		StatusCode: code,
	}
}
