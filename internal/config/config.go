// Package config loads generation-service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by FromEnv.
const (
	EnvLLMProvider    = "LLM_PROVIDER"
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvGeminiAPIKey   = "GEMINI_API_KEY"
	EnvOpenAIBaseURL  = "OPENAI_BASE_URL"
	EnvLLMModel       = "LLM_MODEL"
	EnvScraperAPIKey  = "SCRAPER_API_KEY"
	EnvRateLimitDelay = "LINKEDIN_RATE_LIMIT_DELAY"
	EnvMaxURLs        = "MAX_URLS_PER_BATCH"
	EnvPort           = "PORT"

	EnvGoogleSearchAPIKey = "GOOGLE_SEARCH_API_KEY"
	EnvGoogleSearchCX     = "GOOGLE_SEARCH_CX"
)

// Settings holds everything the generation service needs at startup.
// All fields are optional; missing values use defaults, and a missing LLM
// key is reported per request rather than at startup.
type Settings struct {
	// LLMProvider selects the opener backend: "openai" or "gemini".
	LLMProvider string
	// OpenAIAPIKey and GeminiAPIKey are the provider credentials. Only the
	// key for the selected provider is consulted.
	OpenAIAPIKey string
	GeminiAPIKey string
	// OpenAIBaseURL points the OpenAI client at a proxy or a compatible
	// server. Empty means the public endpoint.
	OpenAIBaseURL string
	// LLMModel overrides the provider's default model name.
	LLMModel string

	// ScraperAPIKey enables the proxy scraping tier when set.
	ScraperAPIKey string
	// RateLimitDelay is the minimum gap between scrapes of profile pages.
	RateLimitDelay time.Duration

	// GoogleSearchAPIKey and GoogleSearchCX switch research from the
	// DuckDuckGo HTML backend to the Google Custom Search API. Both must
	// be set.
	GoogleSearchAPIKey string
	GoogleSearchCX     string

	// MaxURLsPerBatch caps the URL count of one generation request.
	MaxURLsPerBatch int
	// Port is the HTTP listen port.
	Port int
}

// FromEnv reads settings from the environment, applying defaults for
// anything unset.
func FromEnv() (Settings, error) {
	delaySeconds, err := getEnvFloat(EnvRateLimitDelay, 3.0)
	if err != nil {
		return Settings{}, err
	}

	maxURLs, err := getEnvInt(EnvMaxURLs, 10)
	if err != nil {
		return Settings{}, err
	}

	port, err := getEnvInt(EnvPort, 8080)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		LLMProvider:    getEnv(EnvLLMProvider, "openai"),
		OpenAIAPIKey:   os.Getenv(EnvOpenAIAPIKey),
		GeminiAPIKey:   os.Getenv(EnvGeminiAPIKey),
		OpenAIBaseURL:  os.Getenv(EnvOpenAIBaseURL),
		LLMModel:       os.Getenv(EnvLLMModel),
		ScraperAPIKey:  os.Getenv(EnvScraperAPIKey),
		RateLimitDelay: time.Duration(delaySeconds * float64(time.Second)),

		GoogleSearchAPIKey: os.Getenv(EnvGoogleSearchAPIKey),
		GoogleSearchCX:     os.Getenv(EnvGoogleSearchCX),

		MaxURLsPerBatch: maxURLs,
		Port:            port,
	}, nil
}

// GoogleSearchConfigured reports whether the Custom Search backend can be
// used for research.
func (s Settings) GoogleSearchConfigured() bool {
	return s.GoogleSearchAPIKey != "" && s.GoogleSearchCX != ""
}

// Validate checks that the settings have usable values.
func (s Settings) Validate() error {
	if s.LLMProvider != "openai" && s.LLMProvider != "gemini" {
		return fmt.Errorf("config error: %s must be \"openai\" or \"gemini\", got %q", EnvLLMProvider, s.LLMProvider)
	}
	if s.RateLimitDelay < 0 {
		return fmt.Errorf("config error: %s must be non-negative", EnvRateLimitDelay)
	}
	if s.MaxURLsPerBatch < 1 {
		return fmt.Errorf("config error: %s must be at least 1", EnvMaxURLs)
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("config error: %s must be a valid port, got %d", EnvPort, s.Port)
	}
	return nil
}

// LLMKey returns the API key for the selected provider.
func (s Settings) LLMKey() string {
	if s.LLMProvider == "gemini" {
		return s.GeminiAPIKey
	}
	return s.OpenAIAPIKey
}

// LLMConfigured reports whether the selected provider has a key.
func (s Settings) LLMConfigured() bool {
	return s.LLMKey() != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config error: %s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config error: %s must be a number, got %q", key, v)
	}
	return f, nil
}
