package store

import (
	"context"
	"sync"

	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
)

var inMemDocLogger = logger_i.NewLogger("InMem DocumentStore")

// InMemoryDocumentStore is the fallback when redis is offline, and doubles
// as the store used in tests.
type InMemoryDocumentStore struct {
	mutex  *sync.RWMutex
	docMap map[string]docModel.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		mutex:  new(sync.RWMutex),
		docMap: make(map[string]docModel.Document),
	}
}

func (s *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.docMap[doc.Id] = doc
	inMemDocLogger.Debug("Saved document record", "document Id", doc.Id)
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	doc, found := s.docMap[id]
	return doc, found
}

func (s *InMemoryDocumentStore) ListDocuments(ctx context.Context, tier docModel.Tier, scopeId string) ([]docModel.Document, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var docs []docModel.Document
	for _, doc := range s.docMap {
		if doc.Tier == tier && doc.ScopeId == scopeId {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string, tier docModel.Tier, scopeId string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.docMap, id)
	return nil
}

func (s *InMemoryDocumentStore) CountDocuments(ctx context.Context, tier docModel.Tier, scopeId string) (int64, error) {
	docs, _ := s.ListDocuments(ctx, tier, scopeId)
	return int64(len(docs)), nil
}
