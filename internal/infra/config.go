package infra

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	Environment   string `env:"ENVIRONMENT" envDefault:"development"` // development, production
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	LoggerLevel  string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Generation backend
	LLMProvider      string        `env:"LLM_PROVIDER" envDefault:"ollama"` // ollama, hosted, openai, gemini
	LLMModel         string        `env:"LLM_MODEL"`
	OllamaHost       string        `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	HostedLLMURL     string        `env:"HOSTED_LLM_URL" envDefault:"https://api.cohere.ai/v1/chat"`
	HostedLLMAPIKey  string        `env:"HOSTED_LLM_API_KEY"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	LLMTemperature   float32       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMMaxTokens     int           `env:"LLM_MAX_TOKENS" envDefault:"2000"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
	LLMRetryAttempts int           `env:"LLM_RETRY_ATTEMPTS" envDefault:"1"`
	LLMRetryDelay    time.Duration `env:"LLM_RETRY_DELAY" envDefault:"2s"`
	PromptTemplate   string        `env:"PROMPT_TEMPLATE" envDefault:"standard"` // standard, concise, professional

	// Travel data
	ScraperTimeout    time.Duration `env:"SCRAPER_TIMEOUT" envDefault:"10s"`
	ScraperMaxResults int           `env:"SCRAPER_MAX_RESULTS" envDefault:"5"`
	SearchEndpoint    string        `env:"SEARCH_ENDPOINT" envDefault:"https://html.duckduckgo.com/html/"`
	HotelSearchSite   string        `env:"HOTEL_SEARCH_SITE" envDefault:"booking.com"`
	FlightResults     int           `env:"FLIGHT_RESULTS" envDefault:"3"`
	CarRentalResults  int           `env:"CAR_RENTAL_RESULTS" envDefault:"2"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// DefaultModel returns the configured model, falling back to a per-provider default.
func (c Config) DefaultModel() string {
	if c.LLMModel != "" {
		return c.LLMModel
	}
	switch strings.ToLower(c.LLMProvider) {
	case "hosted":
		return "command-r"
	case "openai":
		return "gpt-4o-mini"
	case "gemini":
		return "gemini-1.5-flash"
	default:
		return "tinyllama"
	}
}

func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.LLMProvider) {
	case "ollama":
		if c.OllamaHost == "" {
			return fmt.Errorf("OLLAMA_HOST is required when using the ollama provider")
		}
	case "hosted":
		if c.HostedLLMURL == "" {
			return fmt.Errorf("HOSTED_LLM_URL is required when using the hosted provider")
		}
	case "openai", "gemini":
	default:
		return fmt.Errorf("unsupported LLM provider: %s. Use 'ollama', 'hosted', 'openai' or 'gemini'", c.LLMProvider)
	}

	if c.LLMRetryAttempts < 1 {
		return fmt.Errorf("LLM_RETRY_ATTEMPTS must be at least 1")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if c.ScraperTimeout <= 0 {
		return fmt.Errorf("SCRAPER_TIMEOUT must be positive")
	}
	if c.ScraperMaxResults < 1 {
		return fmt.Errorf("SCRAPER_MAX_RESULTS must be at least 1")
	}
	return nil
}
