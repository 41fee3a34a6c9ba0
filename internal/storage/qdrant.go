package storage

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

var _ RecordStore = (*QdrantStore)(nil)

// QdrantStore writes one point per record into a Qdrant collection over gRPC.
type QdrantStore struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
}

// OpenQdrant connects to Qdrant at addr (host:port of the gRPC listener) and
// ensures the collection exists with cosine distance and the given size.
// A non-empty apiKey is sent as the api-key header on every call.
func OpenQdrant(ctx context.Context, addr, apiKey, collection string, dims int) (*QdrantStore, error) {
	if collection == "" {
		collection = DefaultTable
	}
	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if apiKey != "" {
		opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(apiKey)))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("qdrant: dial %s: %w", addr, err)
	}
	s := &QdrantStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}
	if err := s.ensureCollection(ctx, dims); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func apiKeyInterceptor(key string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", key)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// ensureCollection creates the collection if it doesn't exist.
func (s *QdrantStore) ensureCollection(ctx context.Context, dims int) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("qdrant: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return nil
		}
	}

	if dims <= 0 {
		return fmt.Errorf("qdrant: embedding dimensions must be positive, got %d", dims)
	}
	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", s.collection, err)
	}
	return nil
}

// Insert upserts one point keyed by the record's UUID.
func (s *QdrantStore) Insert(ctx context.Context, r Record) error {
	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         []*pb.PointStruct{pointFromRecord(r)},
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert %s: %w", r.ID, err)
	}
	return nil
}

// Count returns the exact number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	exact := true
	resp, err := s.points.Count(ctx, &pb.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count: %w", err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Close closes the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

func pointFromRecord(r Record) *pb.PointStruct {
	payload := map[string]*pb.Value{
		"year":        {Kind: &pb.Value_IntegerValue{IntegerValue: int64(r.Year)}},
		"title":       {Kind: &pb.Value_StringValue{StringValue: r.Title}},
		"source_url":  {Kind: &pb.Value_StringValue{StringValue: r.SourceURL}},
		"content":     {Kind: &pb.Value_StringValue{StringValue: r.Content}},
		"chunk_index": {Kind: &pb.Value_IntegerValue{IntegerValue: int64(r.ChunkIndex)}},
	}
	if !r.CreatedAt.IsZero() {
		payload["created_at"] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")}}
	}
	return &pb.PointStruct{
		Id: &pb.PointId{
			PointIdOptions: &pb.PointId_Uuid{Uuid: r.ID},
		},
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{Data: r.Embedding},
			},
		},
		Payload: payload,
	}
}
