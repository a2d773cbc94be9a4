package llm

import (
	"context"
	"fmt"
)

// Options controls a single completion call.
type Options struct {
	// Temperature above zero overrides the provider default.
	Temperature float64
	// MaxTokens above zero caps the completion length.
	MaxTokens int
}

// Client is an abstraction over LLM providers.
type Client interface {
	// Complete generates text from a system and user prompt pair.
	Complete(ctx context.Context, system, user string, opts Options) (string, error)
	// Model returns the underlying provider model name.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a new LLM client based on configuration.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		return nil, fmt.Errorf("LLM config is required")
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	case ProviderOpenAI, "":
		return NewOpenAIClient(config)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
