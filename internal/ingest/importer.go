// Package ingest runs documents through the chunk, embed, store pipeline.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/kalambet/lettervec/internal/chunk"
	"github.com/kalambet/lettervec/internal/source"
	"github.com/kalambet/lettervec/internal/storage"
)

// ContentEmbedder generates embeddings for text.
type ContentEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RecordInserter appends records to the document store.
type RecordInserter interface {
	Insert(ctx context.Context, r storage.Record) error
}

// Failure records one document that could not be fully imported.
type Failure struct {
	ID     string
	Stored int
	Err    error
}

// Summary totals a Run.
type Summary struct {
	Documents int
	Succeeded int
	Chunks    int
	Records   int
	Failures  []Failure
}

// Importer processes documents strictly sequentially: one document at a
// time, one chunk at a time.
type Importer struct {
	splitter chunk.Splitter
	embedder ContentEmbedder
	store    RecordInserter
	out      io.Writer
	logger   *slog.Logger
	now      func() time.Time
}

// NewImporter creates an Importer. Progress lines are written to out; pass
// nil to discard them.
func NewImporter(splitter chunk.Splitter, embedder ContentEmbedder, store RecordInserter, out io.Writer) *Importer {
	if out == nil {
		out = io.Discard
	}
	return &Importer{
		splitter: splitter,
		embedder: embedder,
		store:    store,
		out:      out,
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ImportDocument chunks doc, then embeds and inserts each chunk in order.
// The first failure stops the document; records already inserted are kept
// and counted in the returned total.
func (im *Importer) ImportDocument(ctx context.Context, doc source.Document) (int, error) {
	stored, _, err := im.importDocument(ctx, doc)
	return stored, err
}

func (im *Importer) importDocument(ctx context.Context, doc source.Document) (stored, total int, err error) {
	fmt.Fprintf(im.out, "Extracted %d characters\n", utf8.RuneCountInString(doc.Text))

	chunks := im.splitter.Split(doc.Text)
	total = len(chunks)
	fmt.Fprintf(im.out, "Created %d chunks\n", total)

	for i, text := range chunks {
		if err := ctx.Err(); err != nil {
			return stored, total, err
		}
		fmt.Fprintf(im.out, "  Processing chunk %d/%d...\n", i+1, len(chunks))

		vec, err := im.embedder.Embed(ctx, text)
		if err != nil {
			return stored, total, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}

		rec := storage.Record{
			ID:         uuid.New().String(),
			Year:       doc.Year,
			Title:      doc.Title,
			SourceURL:  doc.SourceURL,
			Content:    text,
			ChunkIndex: i,
			Embedding:  vec,
			CreatedAt:  im.now(),
		}
		if err := im.store.Insert(ctx, rec); err != nil {
			return stored, total, fmt.Errorf("chunk %d/%d: storing: %w", i+1, len(chunks), err)
		}
		stored++
	}
	return stored, total, nil
}

// Run imports every entry of r. Each entry's load and import form one
// failure boundary: an error is logged and recorded in the summary, and the
// next entry is processed. Only a listing error or context cancellation is
// returned.
func (im *Importer) Run(ctx context.Context, r source.Reader) (Summary, error) {
	var sum Summary

	entries, err := r.Entries(ctx)
	if err != nil {
		return sum, fmt.Errorf("listing documents: %w", err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Documents++
		fmt.Fprintf(im.out, "\nProcessing %s\n", e.ID)

		stored, chunks, err := im.importEntry(ctx, e)
		sum.Records += stored
		sum.Chunks += chunks
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return sum, ctxErr
			}
			im.logger.Warn("document failed", "doc", e.ID, "stored", stored, "error", err)
			fmt.Fprintf(im.out, "✗ Error processing %s: %v\n", e.ID, err)
			sum.Failures = append(sum.Failures, Failure{ID: e.ID, Stored: stored, Err: err})
			continue
		}
		sum.Succeeded++
		fmt.Fprintf(im.out, "✓ Completed %s\n", e.ID)
	}
	return sum, nil
}

func (im *Importer) importEntry(ctx context.Context, e source.Entry) (stored, chunks int, err error) {
	doc, err := e.Load(ctx)
	if err != nil {
		return 0, 0, err
	}
	return im.importDocument(ctx, doc)
}
