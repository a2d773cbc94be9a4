// Package llm provides centralized LLM configuration and client abstractions.
// This package enables switching between providers without touching callers.
package llm

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderOpenAI is the OpenAI chat completions provider.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Default model per provider. Opener generation is a short, high-volume
// task, so both defaults are the small fast models.
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Config holds provider selection and credentials.
type Config struct {
	Provider Provider
	// Model overrides the provider default when set.
	Model  string
	APIKey string
	// BaseURL points the OpenAI client at a proxy or an API-compatible
	// server. Ignored by other providers.
	BaseURL string
}

// ModelName returns the configured model, falling back to the provider
// default.
func (c *Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderGemini:
		return DefaultGeminiModel
	default:
		return DefaultOpenAIModel
	}
}
