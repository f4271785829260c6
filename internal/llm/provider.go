package llm

import (
	"fmt"

	"github.com/Harshitk-cp/veritas/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderCerebras  = "cerebras"
	ProviderMock      = "mock"
)

// NewClient creates an LLM client based on the provider name.
// Returns a CONFIG_ERROR if the provider is unknown or the API key is empty (except for mock).
func NewClient(provider, apiKey string) (domain.LLMClient, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, domain.NewConfigError("OPENAI_API_KEY is required for OpenAI provider", nil)
		}
		return NewOpenAIClient(apiKey), nil

	case ProviderAnthropic:
		if apiKey == "" {
			return nil, domain.NewConfigError("ANTHROPIC_API_KEY is required for Anthropic provider", nil)
		}
		return NewAnthropicClient(apiKey), nil

	case ProviderGemini:
		if apiKey == "" {
			return nil, domain.NewConfigError("GEMINI_API_KEY is required for Gemini provider", nil)
		}
		return NewGeminiClient(apiKey), nil

	case ProviderCerebras:
		if apiKey == "" {
			return nil, domain.NewConfigError("CEREBRAS_API_KEY is required for Cerebras provider", nil)
		}
		return NewCerebrasClient(apiKey), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, domain.NewConfigError(
			fmt.Sprintf("unknown LLM provider: %s (valid options: openai, anthropic, gemini, cerebras, mock)", provider), nil)
	}
}
