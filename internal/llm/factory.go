package llm

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
	ProviderNone     = "none"
)

// ErrDisabled is returned when the advisor has been switched off in config.
var ErrDisabled = errors.New("LLM advisor is disabled (llm.provider = \"none\")")

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// lmStudioKeyVars are checked in order. LM Studio ignores the key, but the
// client library refuses to send requests without one.
var lmStudioKeyVars = []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"}

// NewClient creates an LLM client based on provider configuration. An empty
// baseURL selects the provider's local default.
func NewClient(provider, model, baseURL string) (Client, error) {
	switch NormalizeProvider(provider) {
	case ProviderCopilot:
		return NewCopilotClient(model)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio:
		return NewOpenAIClient(lmStudioEndpoint(model, baseURL))
	case ProviderNone:
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// NormalizeProvider maps spellings like "LM-Studio" to provider constants.
// Empty selects Copilot.
func NormalizeProvider(provider string) string {
	switch p := strings.ToLower(strings.TrimSpace(provider)); p {
	case "":
		return ProviderCopilot
	case "lm-studio", "llmstudio":
		return ProviderLMStudio
	case "off", "disabled":
		return ProviderNone
	default:
		return p
	}
}

// UseCompactPrompt reports whether a provider serves small local models that
// do better with the shorter prompt.
func UseCompactPrompt(provider string) bool {
	switch NormalizeProvider(provider) {
	case ProviderOllama, ProviderLMStudio:
		return true
	default:
		return false
	}
}

func lmStudioEndpoint(model, baseURL string) Endpoint {
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}
	key := "lm-studio"
	for _, name := range lmStudioKeyVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			key = v
			break
		}
	}
	return Endpoint{Provider: ProviderLMStudio, BaseURL: baseURL, APIKey: key, Model: model}
}
