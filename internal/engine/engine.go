package engine

import "context"

// Engine abstracts an embedding backend (a hosted OpenAI-compatible API or a
// local Ollama server). The embedding layer uses this interface instead of
// depending on a concrete client.
type Engine interface {
	// Name identifies the backend in logs and status output.
	Name() string

	// Embed returns the embedding vector for the given text using the specified model.
	Embed(ctx context.Context, model string, text string) ([]float32, error)

	// IsRunning reports whether the backend is reachable.
	IsRunning(ctx context.Context) bool
}

// ModelManager is implemented by backends that host models locally and can
// download missing ones.
type ModelManager interface {
	// HasModel reports whether the given model name is available locally.
	HasModel(ctx context.Context, name string) bool

	// PullModel downloads a model. The optional callback receives progress updates.
	PullModel(ctx context.Context, name string, onProgress func(PullProgress)) error
}

// PullProgress is one status update while a ModelManager downloads a model.
// Total and Completed are byte counts and stay zero for status-only lines.
type PullProgress struct {
	Status    string
	Total     int64
	Completed int64
}
