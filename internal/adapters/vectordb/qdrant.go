// Package vectordb - qdrant.go holds the remote backend for deployments
// where the index lives in a Qdrant instance instead of a local directory.
package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

// QdrantStore implements ports.VectorStore against a Qdrant collection over
// gRPC. An existing non-empty collection plays the role the persisted
// database file plays for the SQLite backend.
type QdrantStore struct {
	mu          sync.Mutex
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	ensured     bool
}

// NewQdrantStore connects to Qdrant at the given gRPC address.
func NewQdrantStore(addr, collection string) (*QdrantStore, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing qdrant %s: %w", addr, err)
	}
	return &QdrantStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// collectionExists reports whether the configured collection is present.
func (s *QdrantStore) collectionExists(ctx context.Context) (bool, error) {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("%w: listing collections: %v", entities.ErrIndex, err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection creates the collection for the given dimensionality if
// it does not exist yet.
func (s *QdrantStore) ensureCollection(ctx context.Context, dims int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}

	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
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
			return fmt.Errorf("%w: creating collection %s: %v", entities.ErrIndex, s.collection, err)
		}
	}
	s.ensured = true
	return nil
}

// Store upserts documents as points. Point UUIDs derive deterministically
// from document identifiers, so colliding identifiers overwrite.
func (s *QdrantStore) Store(ctx context.Context, docs []entities.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx, len(docs[0].Embedding)); err != nil {
		return err
	}

	points := make([]*pb.PointStruct, len(docs))
	for i, doc := range docs {
		docJSON, err := json.Marshal(doc.Document)
		if err != nil {
			return fmt.Errorf("encoding document %s: %w", doc.ID, err)
		}
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: pointID(doc.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: doc.Embedding},
				},
			},
			Payload: map[string]*pb.Value{
				"id":      {Kind: &pb.Value_StringValue{StringValue: doc.ID}},
				"type":    {Kind: &pb.Value_StringValue{StringValue: string(doc.Type)}},
				"content": {Kind: &pb.Value_StringValue{StringValue: doc.Content}},
				"doc":     {Kind: &pb.Value_StringValue{StringValue: string(docJSON)}},
			},
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("%w: upserting %d points: %v", entities.ErrIndex, len(points), err)
	}
	return nil
}

// Search performs k-NN similarity search against the collection.
func (s *QdrantStore) Search(ctx context.Context, embedding []float32, topK int) ([]entities.QueryResult, error) {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         embedding,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: searching collection %s: %v", entities.ErrIndex, s.collection, err)
	}

	results := make([]entities.QueryResult, 0, len(resp.GetResult()))
	for _, r := range resp.GetResult() {
		raw := r.GetPayload()["doc"].GetStringValue()
		var doc entities.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("%w: corrupt point payload: %v", entities.ErrIndex, err)
		}
		results = append(results, entities.QueryResult{Document: doc, Score: float64(r.GetScore())})
	}
	return results, nil
}

// Count returns the number of points, 0 when the collection is absent.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	exact := true
	resp, err := s.points.Count(ctx, &pb.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: counting points: %v", entities.ErrIndex, err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Clear drops the collection.
func (s *QdrantStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: s.collection})
	if err != nil {
		return fmt.Errorf("%w: deleting collection %s: %v", entities.ErrIndex, s.collection, err)
	}
	s.ensured = false
	return nil
}

// Close closes the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

// pointID derives a stable UUID from a document identifier; Qdrant point
// ids must be UUIDs or integers.
func pointID(docID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("bookrag/"+docID)).String()
}
