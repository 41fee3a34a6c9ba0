package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Defaults for the hosted OpenAI embeddings API.
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "text-embedding-3-small"
	defaultOpenAITimeout = 60 * time.Second
)

// ErrMissingAPIKey is returned when an OpenAI engine is built without a key.
var ErrMissingAPIKey = errors.New("openai: API key is required")

// ModelDimensions lists the native vector size of known embedding models.
var ModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"all-minilm":             384,
}

// OpenAIEngine calls an OpenAI-compatible /embeddings endpoint.
type OpenAIEngine struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewOpenAIEngine creates an engine for the API at baseURL. An empty baseURL
// selects the public OpenAI endpoint.
func NewOpenAIEngine(baseURL, apiKey string) (*OpenAIEngine, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return &OpenAIEngine{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultOpenAITimeout},
	}, nil
}

func (e *OpenAIEngine) Name() string { return "openai" }

type openAIEmbeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Embed sends a single input to {base}/embeddings and returns data[0].embedding.
func (e *OpenAIEngine) Embed(ctx context.Context, model string, text string) ([]float32, error) {
	body, err := json.Marshal(openAIEmbeddingRequest{Model: model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading embed response: %w", err)
	}

	var result openAIEmbeddingResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("openai: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return nil, fmt.Errorf("decoding embed response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("openai: %s", result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("openai: no embedding returned")
	}

	vec := make([]float32, len(result.Data[0].Embedding))
	for i, v := range result.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// IsRunning checks GET {base}/models, which also validates the API key.
func (e *OpenAIEngine) IsRunning(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/models", http.NoBody)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
