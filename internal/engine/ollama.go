package engine

import (
	"context"

	"github.com/kalambet/lettervec/internal/ollama"
)

// DefaultOllamaBaseURL is where a local Ollama server listens by default.
const DefaultOllamaBaseURL = "http://localhost:11434"

// OllamaEngine embeds through a local Ollama server and can pull missing
// models, so it satisfies both Engine and ModelManager.
type OllamaEngine struct {
	client *ollama.Client
}

var (
	_ Engine       = (*OllamaEngine)(nil)
	_ ModelManager = (*OllamaEngine)(nil)
)

func NewOllamaEngine(baseURL string) *OllamaEngine {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	return &OllamaEngine{client: ollama.New(baseURL)}
}

func (e *OllamaEngine) Name() string { return ProviderOllama }

func (e *OllamaEngine) Embed(ctx context.Context, model string, text string) ([]float32, error) {
	return e.client.Embed(ctx, model, text)
}

func (e *OllamaEngine) IsRunning(ctx context.Context) bool { return e.client.IsRunning(ctx) }

func (e *OllamaEngine) HasModel(ctx context.Context, name string) bool {
	return e.client.HasModel(ctx, name)
}

// PullModel downloads name, translating the client's progress lines.
func (e *OllamaEngine) PullModel(ctx context.Context, name string, onProgress func(PullProgress)) error {
	if onProgress == nil {
		return e.client.PullModel(ctx, name, nil)
	}
	return e.client.PullModel(ctx, name, func(p ollama.PullProgress) {
		onProgress(PullProgress{Status: p.Status, Total: p.Total, Completed: p.Completed})
	})
}
