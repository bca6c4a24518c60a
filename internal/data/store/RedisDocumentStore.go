package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/data/redisStore"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
)

// RedisDocumentStore keeps one JSON record per document plus a per-scope set
// index so list/count never scan the keyspace. Records carry no TTL - the
// metadata store is the authoritative audit trail for uploads.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func documentKey(id string) string {
	return "doc:" + id
}

func scopeIndexKey(tier docModel.Tier, scopeId string) string {
	return fmt.Sprintf("docs:%s:%s", tier, scopeId)
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "document Id", doc.Id)

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err = s.store.Set(ctx, documentKey(doc.Id), data, 0); err != nil {
		return err
	}
	if err = s.store.SetAdd(ctx, scopeIndexKey(doc.Tier, doc.ScopeId), doc.Id); err != nil {
		return err
	}
	log.Debug("Saved document record", "status", doc.Status)
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	var doc docModel.Document
	val, err := s.store.Get(ctx, documentKey(id))
	if s.store.IsNil(err) {
		return doc, false
	} else if err != nil {
		s.logger.Error("Error reading document record", "document Id", id, "error", err)
		return doc, false
	}

	if err = json.Unmarshal([]byte(val), &doc); err != nil {
		s.logger.Error("Corrupt document record", "document Id", id, "error", err)
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context, tier docModel.Tier, scopeId string) ([]docModel.Document, error) {
	ids, err := s.store.SetMembers(ctx, scopeIndexKey(tier, scopeId))
	if err != nil {
		return nil, err
	}

	docs := make([]docModel.Document, 0, len(ids))
	for _, id := range ids {
		if doc, found := s.GetDocument(ctx, id); found {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string, tier docModel.Tier, scopeId string) error {
	if err := s.store.Del(ctx, documentKey(id)); err != nil {
		return err
	}
	return s.store.SetRemove(ctx, scopeIndexKey(tier, scopeId), id)
}

func (s *RedisDocumentStore) CountDocuments(ctx context.Context, tier docModel.Tier, scopeId string) (int64, error) {
	return s.store.SetCount(ctx, scopeIndexKey(tier, scopeId))
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test document store"),
	}
}
