package vectorDB

import (
	"context"

	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
)

// ScoredPoint is one nearest-neighbour hit. Distance is similarity-inverse:
// 0 is an exact match, larger is further away.
type ScoredPoint struct {
	Content  string
	Metadata map[string]string
	Distance float32
}

type DataProcessor interface {
	EnsureCollection(ctx context.Context, collectionName string) error
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	Count(ctx context.Context, collectionName string) (uint64, error)

	UpsertBatch(ctx context.Context, collectionName string, chunks []docModel.Chunk, vectors [][]float32) error
	Query(ctx context.Context, collectionName string, vector []float32, limit uint64) ([]ScoredPoint, error)

	DeletePoints(ctx context.Context, collectionName string, pointIds []string) error
	DeleteByDocument(ctx context.Context, collectionName string, documentId string) error
}
