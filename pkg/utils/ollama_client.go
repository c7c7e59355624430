package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message *struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// OllamaTransport talks to a local Ollama server's /api/chat endpoint.
type OllamaTransport struct {
	host       string
	httpClient *http.Client
}

func NewOllamaTransport(host string, httpClient *http.Client) *OllamaTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaTransport{
		host:       strings.TrimRight(host, "/"),
		httpClient: httpClient,
	}
}

func (o *OllamaTransport) Name() string { return "ollama" }

func (o *OllamaTransport) Complete(ctx context.Context, req GenerateRequest) (string, error) {
	var messages []ollamaMessage
	if req.SystemPrompt != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(ollamaChatRequest{Model: req.Model, Messages: messages, Stream: false})
	if err != nil {
		return "", NewGenerationError(ErrBackendBadResponse, "could not encode Ollama request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", NewGenerationError(ErrBackendUnreachable, "invalid Ollama host", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", transportError("Ollama", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError("Ollama", resp)
	}

	var out ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", NewGenerationError(ErrBackendBadResponse, "unexpected response format from Ollama", err)
	}
	if out.Message == nil {
		return "", NewGenerationError(ErrBackendBadResponse, "unexpected response format from Ollama: missing message.content", nil)
	}
	return out.Message.Content, nil
}

// Ping checks the server root, which Ollama answers with 200 "Ollama is running".
func (o *OllamaTransport) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, o.host, nil)
	if err != nil {
		return NewGenerationError(ErrBackendUnreachable, "invalid Ollama host", err)
	}
	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return transportError("Ollama", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return NewGenerationError(ErrBackendStatus, fmt.Sprintf("Ollama server not running (status %d)", resp.StatusCode), nil)
	}
	return nil
}
