package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"
)

var _ RecordStore = (*PostgresStore)(nil)

// PostgresStore writes documents to a Postgres table with a pgvector column,
// the layout used by hosted Supabase projects.
type PostgresStore struct {
	db   *sql.DB
	dims int
}

// OpenPostgres connects to the database at url and creates the vector
// extension and the documents table when missing.
func OpenPostgres(ctx context.Context, url string, dims int) (*PostgresStore, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("postgres: embedding dimensions must be positive, got %d", dims)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &PostgresStore{db: db, dims: dims}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
			id          UUID PRIMARY KEY,
			year        INTEGER NOT NULL,
			title       TEXT NOT NULL,
			source_url  TEXT NOT NULL,
			content     TEXT NOT NULL,
			chunk_index INTEGER NOT NULL DEFAULT 0,
			embedding   vector(%d) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.dims),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating postgres schema: %w", err)
		}
	}
	return nil
}

// Insert appends one record to the documents table.
func (s *PostgresStore) Insert(ctx context.Context, r Record) error {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, year, title, source_url, content, chunk_index, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.Year, r.Title, r.SourceURL, r.Content, r.ChunkIndex,
		pgvector.NewVector(r.Embedding), createdAt,
	)
	if err != nil {
		return fmt.Errorf("inserting record %s: %w", r.ID, err)
	}
	return nil
}

// Count returns the number of records in the documents table.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	return count, err
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
