package infra

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		LLMProvider:       "ollama",
		OllamaHost:        "http://localhost:11434",
		LLMTimeout:        time.Minute,
		LLMRetryAttempts:  1,
		ScraperTimeout:    10 * time.Second,
		ScraperMaxResults: 5,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.LLMProvider = "bard" }, "unsupported LLM provider"},
		{"ollama without host", func(c *Config) { c.OllamaHost = "" }, "OLLAMA_HOST"},
		{"zero retry attempts", func(c *Config) { c.LLMRetryAttempts = 0 }, "LLM_RETRY_ATTEMPTS"},
		{"zero scraper timeout", func(c *Config) { c.ScraperTimeout = 0 }, "SCRAPER_TIMEOUT"},
		{"negative llm timeout", func(c *Config) { c.LLMTimeout = -time.Second }, "LLM_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
