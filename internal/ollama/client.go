// Package ollama is a minimal client for the parts of the Ollama HTTP API
// needed to produce embeddings: /api/version, /api/tags, /api/pull and
// /api/embed.
package ollama

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

const (
	probeTimeout = 2 * time.Second
	listTimeout  = 10 * time.Second
)

// StatusError is returned when Ollama answers with a non-200 status.
// Message holds the "error" field of the body when one was sent.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ollama: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("ollama: status %d: %s", e.Code, e.Message)
}

// Client talks to one Ollama server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the server at baseURL. Requests carry no client
// timeout because pulls can run for minutes; callers bound them with ctx.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// do sends in as JSON (when non-nil) and returns the response for the caller
// to consume. Non-200 responses are closed and converted to *StatusError.
func (c *Client) do(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encoding %s request: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		serr := &StatusError{Code: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload) == nil {
			serr.Message = payload.Error
		}
		return nil, serr
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// Version returns the server version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var v struct {
		Version string `json:"version"`
	}
	if err := c.getJSON(ctx, "/api/version", &v); err != nil {
		return "", err
	}
	return v.Version, nil
}

// IsRunning reports whether the server answers /api/version within a short
// probe timeout.
func (c *Client) IsRunning(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	_, err := c.Version(ctx)
	return err == nil
}

// ListModels returns the names of the locally available models, tag included
// (for example "nomic-embed-text:latest").
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := c.getJSON(ctx, "/api/tags", &tags); err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}

	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

// HasModel reports whether name is available locally. A name without a tag
// matches any tag of that model.
func (c *Client) HasModel(ctx context.Context, name string) bool {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false
	}
	for _, m := range models {
		if m == name || strings.HasPrefix(m, name+":") {
			return true
		}
	}
	return false
}

// PullProgress is one line of the streamed /api/pull response.
type PullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
	Error     string `json:"error,omitempty"`
}

// PullModel downloads a model and reads the progress stream to the end.
// onProgress may be nil. An error line in the stream fails the pull.
func (c *Client) PullModel(ctx context.Context, name string, onProgress func(PullProgress)) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/pull", map[string]any{"model": name, "stream": true})
	if err != nil {
		return fmt.Errorf("pulling %s: %w", name, err)
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	for {
		var p PullProgress
		err := dec.Decode(&p)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("pulling %s: reading progress: %w", name, err)
		}
		if p.Error != "" {
			return fmt.Errorf("pulling %s: %s", name, p.Error)
		}
		if onProgress != nil {
			onProgress(p)
		}
	}
}

type embedRequest struct {
	Model    string   `json:"model"`
	Input    []string `json:"input"`
	Truncate bool     `json:"truncate"`
}

// EmbedBatch returns one vector per input, in input order. Inputs longer
// than the model context are truncated by the server.
func (c *Client) EmbedBatch(ctx context.Context, model string, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/embed", embedRequest{Model: model, Input: inputs, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("embedding with %s: %w", model, err)
	}
	defer resp.Body.Close()

	var out struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding embed response: %w", err)
	}
	if len(out.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("embedding with %s: got %d vectors for %d inputs", model, len(out.Embeddings), len(inputs))
	}
	return out.Embeddings, nil
}

// Embed returns the vector for a single text.
func (c *Client) Embed(ctx context.Context, model string, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, model, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}
