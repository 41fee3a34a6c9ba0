package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultTable is the table (or collection) documents are written to.
const DefaultTable = "documents"

// ErrUnknownDriver is returned by Open for an unsupported store.driver value.
var ErrUnknownDriver = errors.New("unknown store driver")

// Record is one stored chunk of a source document. Content and Embedding
// always come from the same chunk. Records are never updated.
type Record struct {
	ID         string
	Year       int
	Title      string
	SourceURL  string
	Content    string
	ChunkIndex int
	Embedding  []float32
	CreatedAt  time.Time
}

// RecordStore appends records to the documents table and reports its size.
type RecordStore interface {
	// Insert appends a single record. Each call is independent; there is no
	// transaction spanning several records.
	Insert(ctx context.Context, r Record) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying connection.
	Close() error
}

// Exporter is implemented by stores that can stream back every record.
type Exporter interface {
	ExportAll(ctx context.Context) ([]Record, error)
}
