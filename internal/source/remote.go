package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kalambet/lettervec/internal/pdftext"
)

const defaultDownloadTimeout = 2 * time.Minute

// RemoteReader downloads each catalog entry and extracts its text.
type RemoteReader struct {
	Catalog    []CatalogEntry
	HTTPClient *http.Client
	Extractor  pdftext.Extractor
	Logger     *slog.Logger
}

// Entries returns one entry per catalog item in catalog order. Nothing is
// downloaded until Load is called.
func (r *RemoteReader) Entries(_ context.Context) ([]Entry, error) {
	if len(r.Catalog) == 0 {
		return nil, ErrNoDocuments
	}
	entries := make([]Entry, len(r.Catalog))
	for i, item := range r.Catalog {
		entries[i] = Entry{
			ID: fmt.Sprintf("%d - %s", item.Year, item.Title),
			Load: func(ctx context.Context) (Document, error) {
				return r.load(ctx, item)
			},
		}
	}
	return entries, nil
}

func (r *RemoteReader) load(ctx context.Context, item CatalogEntry) (Document, error) {
	data, err := r.download(ctx, item.URL)
	if err != nil {
		return Document{}, err
	}

	ex := r.Extractor
	if ex == nil {
		ex = pdftext.PDF{}
	}
	text, err := ex.Extract(data)
	if err != nil {
		return Document{}, fmt.Errorf("extracting text from %s: %w", item.URL, err)
	}

	return Document{
		Year:      item.Year,
		Title:     item.Title,
		SourceURL: item.URL,
		Text:      text,
	}, nil
}

func (r *RemoteReader) download(ctx context.Context, url string) ([]byte, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := r.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultDownloadTimeout}
	}

	logger.Debug("downloading", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("downloading %s: %w %d", url, ErrHTTPStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", url, err)
	}
	return data, nil
}
