//go:build integration

package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
)

func TestPostgres_InsertAndCount(t *testing.T) {
	url := os.Getenv("LETTERVEC_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("LETTERVEC_TEST_POSTGRES_URL not set, skipping")
	}
	ctx := context.Background()

	s, err := OpenPostgres(ctx, url, 3)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	defer s.Close()

	before, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	r := testRecord(0, []float32{0.1, 0.2, 0.3})
	if err := s.Insert(ctx, r); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	t.Cleanup(func() { s.db.Exec("DELETE FROM documents WHERE id = $1", r.ID) })

	after, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if after != before+1 {
		t.Errorf("Count = %d, want %d", after, before+1)
	}
}

func TestQdrant_InsertAndCount(t *testing.T) {
	addr := os.Getenv("QDRANT_URL")
	if addr == "" {
		addr = "localhost:6334"
	}
	ctx := context.Background()
	collection := "lettervec_test_" + uuid.NewString()[:8]

	s, err := OpenQdrant(ctx, addr, os.Getenv("QDRANT_API_KEY"), collection, 4)
	if err != nil {
		t.Skipf("qdrant not available: %v", err)
	}
	t.Cleanup(func() {
		s.collections.Delete(context.Background(), &pb.DeleteCollection{CollectionName: collection})
		s.Close()
	})

	for i := 0; i < 2; i++ {
		if err := s.Insert(ctx, testRecord(i, []float32{1, 0, 0, 0})); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}
