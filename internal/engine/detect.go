package engine

import "fmt"

// Supported embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// DetectConfig holds parameters for backend selection.
type DetectConfig struct {
	Provider string
	BaseURL  string
	APIKey   string
}

// Detect returns the Engine for the configured provider. An empty provider
// selects OpenAI.
func Detect(cfg DetectConfig) (Engine, error) {
	switch cfg.Provider {
	case "", ProviderOpenAI:
		return NewOpenAIEngine(cfg.BaseURL, cfg.APIKey)
	case ProviderOllama:
		return NewOllamaEngine(cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
