// Package embedding maps chunk text to fixed-length vectors through an engine.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/kalambet/lettervec/internal/engine"
)

var (
	// ErrEmptyInput is returned for zero-length text; the engine is not
	// called. Whitespace-only text is a valid input.
	ErrEmptyInput = errors.New("embedding input is empty")

	// ErrDimensionMismatch is returned when the engine answers with a vector
	// of a different length than configured.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Embedder wraps an Engine to generate text embeddings with a fixed model.
type Embedder struct {
	engine engine.Engine
	model  string
	dims   int
}

// NewEmbedder creates an Embedder using the given Engine and model name. When
// dims is greater than zero every returned vector must have that length.
func NewEmbedder(e engine.Engine, model string, dims int) *Embedder {
	return &Embedder{engine: e, model: model, dims: dims}
}

// Embed returns the embedding vector for a single text. Each call is exactly
// one request to the engine.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}
	vec, err := e.engine.Embed(ctx, e.model, text)
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	if e.dims > 0 && len(vec) != e.dims {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), e.dims)
	}
	return vec, nil
}
