package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider generates text from a system instruction and a user prompt.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is a single-turn generation request.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int64
}

var (
	ErrNoAPIKey      = errors.New("llm: api key not configured")
	ErrEmptyResponse = errors.New("llm: empty response")
)

// PlaceholderAPIKey is the value shipped in sample env files.
const PlaceholderAPIKey = "tu_groq_api_key_aqui"

// Configured reports whether key looks like a real credential.
func Configured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderAPIKey
}

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	GroqBaseURL = "https://api.groq.com/openai/v1/"
)

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	default:
		return "llama3-8b-8192"
	}
}

// NewProvider builds the provider named by name. An unconfigured key still yields
// a provider; it fails every call with ErrNoAPIKey.
func NewProvider(name, apiKey, model, baseURL string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = ProviderGroq
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel(name)
	}
	switch name {
	case ProviderGroq:
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return NewOpenAIProvider(apiKey, model, baseURL), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, model, baseURL), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey, model), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", name)
	}
}
