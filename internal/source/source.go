// Package source produces the documents fed into the import pipeline: local
// text files, remote PDFs listed in a catalog, a built-in sample, and
// in-memory text.
package source

import (
	"context"
	"errors"
)

var (
	// ErrNoDocuments is returned by a reader that found nothing to import.
	ErrNoDocuments = errors.New("no documents found")

	// ErrHTTPStatus wraps a non-2xx download response.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)

// Document is one source text with the metadata stored alongside every chunk.
type Document struct {
	Year      int
	Title     string
	SourceURL string
	Text      string
}

// Entry is a document that has been listed but not read yet. Load performs
// the expensive part (file read, download, extraction) so that its failure
// is attributed to this entry alone.
type Entry struct {
	ID   string
	Load func(ctx context.Context) (Document, error)
}

// Reader lists the documents of one source.
type Reader interface {
	Entries(ctx context.Context) ([]Entry, error)
}
