package backend_fx

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"travelbuddy/internal/infra"
	"travelbuddy/internal/services"
	"travelbuddy/pkg/utils"
)

var Module = fx.Provide(
	ProvideTransport,
	ProvideBackendClient,
	ProvidePromptService,
	services.NewExtractionService,
)

// ProvideTransport picks the wire format for LLM_PROVIDER and wraps it with retries.
func ProvideTransport(lc fx.Lifecycle, cfg infra.Config, logger *zap.Logger) (utils.Transport, error) {
	httpClient := &http.Client{Timeout: cfg.LLMTimeout}

	var transport utils.Transport
	switch strings.ToLower(cfg.LLMProvider) {
	case "ollama":
		transport = utils.NewOllamaTransport(cfg.OllamaHost, httpClient)
	case "hosted":
		transport = utils.NewHostedChatTransport(cfg.HostedLLMURL, cfg.HostedLLMAPIKey, cfg.LLMTemperature, cfg.LLMMaxTokens, httpClient)
	case "openai":
		transport = utils.NewOpenAITransport(cfg.OpenAIAPIKey, "", cfg.LLMTemperature, cfg.LLMMaxTokens, httpClient)
	case "gemini":
		gemini, err := utils.NewGeminiTransport(context.Background(), cfg.GeminiAPIKey, cfg.LLMTemperature, cfg.LLMMaxTokens)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.StopHook(gemini.Close))
		transport = gemini
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	logger.Info("Generation backend configured",
		zap.String("provider", transport.Name()),
		zap.String("model", cfg.DefaultModel()),
		zap.Int("retry_attempts", cfg.LLMRetryAttempts))
	return utils.WithRetry(transport, cfg.LLMRetryAttempts, cfg.LLMRetryDelay, logger), nil
}

func ProvideBackendClient(transport utils.Transport, cfg infra.Config, logger *zap.Logger) utils.BackendClientInterface {
	return utils.NewBackendClient(transport, cfg.DefaultModel(), cfg.LLMTimeout, logger)
}

func ProvidePromptService(cfg infra.Config) (services.PromptServiceInterface, error) {
	prompts, err := services.NewPromptService(cfg.PromptTemplate)
	if err != nil {
		return nil, err
	}
	return prompts, nil
}
