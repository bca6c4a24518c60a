package knowledge

import (
	"context"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/jobModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/assembler"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/cache"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/collections"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/embedding"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/ingest"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/retrieval"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/vectorDB"
	"github.com/gitclixlogix/contentry-knowledge/internal/metrics"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
)

// Service is the public contract; handlers and workers never see the vector
// store, embedder or document store behind it. The private struct satisfies
// it implicitly, and the constructor swaps real clients for mocks in tests.
type Service interface {
	IngestDocument(ctx context.Context, req ingest.Request) jobModel.IngestResult
	QueryTieredContext(ctx context.Context, req assembler.Request) string
	DeleteDocument(ctx context.Context, documentId string, tier docModel.Tier, scopeId string) (bool, error)
	ScopeStats(ctx context.Context, tier docModel.Tier, scopeId string) (docModel.ScopeStats, error)
}

type service struct {
	pipeline    *ingest.Pipeline
	assembler   *assembler.Assembler
	collections *collections.Manager
	documents   docModel.DocumentStore
	cache       *cache.ContextCache
	logger      *logger_i.Logger
}

// NewService constructor - contextCache may be nil, which disables caching.
func NewService(vector vectorDB.DataProcessor, em embedding.Embedder, documents docModel.DocumentStore, contextCache *cache.ContextCache) Service {
	manager := collections.NewManager(vector, em)
	return &service{
		pipeline:    ingest.NewPipeline(manager, documents),
		assembler:   assembler.New(retrieval.NewEngine(manager)),
		collections: manager,
		documents:   documents,
		cache:       contextCache,
		logger:      logger_i.NewLogger("Knowledge Service"),
	}
}

func (s *service) IngestDocument(ctx context.Context, req ingest.Request) jobModel.IngestResult {
	result := s.pipeline.Ingest(ctx, req)
	if result.Success {
		s.cache.Invalidate(ctx, req.Tier, req.ScopeId)
	}
	return result
}

func (s *service) QueryTieredContext(ctx context.Context, req assembler.Request) string {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if cached, found := s.cache.Get(ctx, req); found {
		log.Debug("assembled context served from cache")
		return cached
	}

	assembled := s.assembler.Assemble(ctx, req)
	s.cache.Put(ctx, req, assembled)
	return assembled
}

func (s *service) DeleteDocument(ctx context.Context, documentId string, tier docModel.Tier, scopeId string) (bool, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "document Id", documentId)

	doc, found := s.documents.GetDocument(ctx, documentId)
	if !found {
		return false, nil
	}
	// The caller's scope must match the record - one scope cannot reach into
	// another scope's documents even with a leaked id.
	if doc.Tier != tier || doc.ScopeId != scopeId {
		log.Warn("delete refused: scope mismatch", "tier", tier, "scope", scopeId)
		return false, nil
	}

	start := time.Now()
	if err := s.collections.DeleteDocumentChunks(ctx, tier, scopeId, documentId, doc.ChunkCount); err != nil {
		return false, err
	}
	metrics.CaptureExecutionMetrics("chunk_delete", time.Since(start))

	if err := s.documents.DeleteDocument(ctx, documentId, tier, scopeId); err != nil {
		return false, err
	}

	s.cache.Invalidate(ctx, tier, scopeId)
	log.Info("document deleted", "chunks", doc.ChunkCount)
	return true, nil
}

func (s *service) ScopeStats(ctx context.Context, tier docModel.Tier, scopeId string) (docModel.ScopeStats, error) {
	documentCount, err := s.documents.CountDocuments(ctx, tier, scopeId)
	if err != nil {
		return docModel.ScopeStats{}, err
	}

	// chunk count is read live from the collection; the per-document
	// chunk_count field reflects ingestion time only and is not reconciled
	chunkCount, err := s.collections.Count(ctx, tier, scopeId)
	if err != nil {
		return docModel.ScopeStats{}, err
	}

	return docModel.ScopeStats{
		DocumentCount: documentCount,
		ChunkCount:    int64(chunkCount),
		HasKnowledge:  chunkCount > 0,
	}, nil
}
