package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

type hostedChatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Preamble    string  `json:"preamble,omitempty"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type hostedChatResponse struct {
	Text *string `json:"text"`
}

// HostedChatTransport calls a hosted chat API of the {model, message} -> {text} shape
// (Cohere's v1 chat endpoint by default), authenticated with a bearer key.
type HostedChatTransport struct {
	endpoint    string
	apiKey      string
	temperature float32
	maxTokens   int
	httpClient  *http.Client
}

func NewHostedChatTransport(endpoint, apiKey string, temperature float32, maxTokens int, httpClient *http.Client) *HostedChatTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HostedChatTransport{
		endpoint:    endpoint,
		apiKey:      apiKey,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  httpClient,
	}
}

func (h *HostedChatTransport) Name() string { return "hosted" }

func (h *HostedChatTransport) Complete(ctx context.Context, req GenerateRequest) (string, error) {
	if h.apiKey == "" {
		return "", NewGenerationError(ErrBackendAuth, "HOSTED_LLM_API_KEY is not set", nil)
	}

	body, err := json.Marshal(hostedChatRequest{
		Model:       req.Model,
		Message:     req.Prompt,
		Preamble:    req.SystemPrompt,
		Temperature: h.temperature,
		MaxTokens:   h.maxTokens,
	})
	if err != nil {
		return "", NewGenerationError(ErrBackendBadResponse, "could not encode hosted chat request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", NewGenerationError(ErrBackendUnreachable, "invalid hosted chat endpoint", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return "", transportError("hosted chat API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError("hosted chat API", resp)
	}

	var out hostedChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", NewGenerationError(ErrBackendBadResponse, "unexpected response format from hosted chat API", err)
	}
	if out.Text == nil {
		return "", NewGenerationError(ErrBackendBadResponse, "unexpected response format from hosted chat API: missing text", nil)
	}
	return *out.Text, nil
}
