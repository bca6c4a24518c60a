package knowledge_test

import (
	"context"
	"errors"
	"sync"

	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/vectorDB"
)

// MemoryVectorDB keeps points in per-collection slices so the service tests
// can exercise the real ingestion and retrieval flow without a qdrant
// instance. Query ignores vectors and returns points in insertion order.
type MemoryVectorDB struct {
	mu          sync.Mutex
	collections map[string][]storedPoint

	FailUpsert bool
}

type storedPoint struct {
	id       string
	content  string
	metadata map[string]string
}

func NewMemoryVectorDB() *MemoryVectorDB {
	return &MemoryVectorDB{collections: make(map[string][]storedPoint)}
}

func (m *MemoryVectorDB) EnsureCollection(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; !ok {
		m.collections[name] = nil
	}
	return nil
}

func (m *MemoryVectorDB) CollectionExists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.collections[name]
	return ok, nil
}

func (m *MemoryVectorDB) Count(ctx context.Context, name string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.collections[name])), nil
}

func (m *MemoryVectorDB) UpsertBatch(ctx context.Context, name string, chunks []docModel.Chunk, vectors [][]float32) error {
	if m.FailUpsert {
		return errors.New("upsert refused")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, chunk := range chunks {
		m.collections[name] = append(m.collections[name], storedPoint{
			id:      chunk.ChunkId,
			content: chunk.Content,
			metadata: map[string]string{
				"document_id": chunk.DocumentId,
				"filename":    chunk.Filename,
			},
		})
	}
	return nil
}

func (m *MemoryVectorDB) Query(ctx context.Context, name string, vector []float32, limit uint64) ([]vectorDB.ScoredPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var points []vectorDB.ScoredPoint
	for i, p := range m.collections[name] {
		if uint64(len(points)) >= limit {
			break
		}
		points = append(points, vectorDB.ScoredPoint{
			Content:  p.content,
			Metadata: p.metadata,
			Distance: 0.05 * float32(i+1),
		})
	}
	return points, nil
}

func (m *MemoryVectorDB) DeletePoints(ctx context.Context, name string, pointIds []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doomed := make(map[string]bool, len(pointIds))
	for _, id := range pointIds {
		doomed[id] = true
	}
	var kept []storedPoint
	for _, p := range m.collections[name] {
		if !doomed[p.id] {
			kept = append(kept, p)
		}
	}
	m.collections[name] = kept
	return nil
}

func (m *MemoryVectorDB) DeleteByDocument(ctx context.Context, name string, documentId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []storedPoint
	for _, p := range m.collections[name] {
		if p.metadata["document_id"] != documentId {
			kept = append(kept, p)
		}
	}
	m.collections[name] = kept
	return nil
}

// StubEmbedder returns fixed-size zero vectors; the memory vector store does
// not rank by similarity so the values never matter.
type StubEmbedder struct {
	FailBatch bool
}

func (s *StubEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return make([]float32, 4), nil
}

func (s *StubEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if s.FailBatch {
		return nil, errors.New("embedding quota exhausted")
	}
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = make([]float32, 4)
	}
	return vectors, nil
}
