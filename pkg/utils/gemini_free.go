package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiTransport uses Google's Gemini models. The free tier model is the default.
type GeminiTransport struct {
	client      *genai.Client
	temperature float32
	maxTokens   int32
}

// The client manages its own HTTP transport; BackendClient bounds each call with a timeout.
func NewGeminiTransport(ctx context.Context, apiKey string, temperature float32, maxTokens int) (*GeminiTransport, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTransport{
		client:      client,
		temperature: temperature,
		maxTokens:   int32(maxTokens),
	}, nil
}

func (g *GeminiTransport) Name() string { return "gemini" }

func (g *GeminiTransport) Complete(ctx context.Context, req GenerateRequest) (string, error) {
	model := g.client.GenerativeModel(req.Model)
	model.SetTemperature(g.temperature)
	model.SetTopP(0.9)
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(g.maxTokens)
	}
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", NewGenerationError(ErrBackendBadResponse, "no content generated by Gemini", nil)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Ping fetches the first page of the model list with the configured key.
func (g *GeminiTransport) Ping(ctx context.Context) error {
	_, err := g.client.ListModels(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return classifyGeminiError(err)
	}
	return nil
}

func (g *GeminiTransport) Close() error {
	return g.client.Close()
}

func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		kind := ErrBackendStatus
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			kind = ErrBackendAuth
		}
		// Gemini answers a bad key with 400 API_KEY_INVALID.
		if apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "API key") {
			kind = ErrBackendAuth
		}
		return &GenerationError{
			Kind:       kind,
			Message:    fmt.Sprintf("Gemini returned status %d: %s", apiErr.Code, apiErr.Message),
			StatusCode: apiErr.Code,
		}
	}
	if isUnreachable(err) {
		return transportError("Gemini", err)
	}
	return NewGenerationError(ErrBackendBadResponse, "gemini API call failed", err)
}
