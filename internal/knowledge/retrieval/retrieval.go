package retrieval

import (
	"context"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/collections"
	"github.com/gitclixlogix/contentry-knowledge/internal/metrics"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
)

// Retriever is what the assembler consumes; the engine is the production
// implementation, tests swap in function-field mocks.
type Retriever interface {
	Query(ctx context.Context, tier docModel.Tier, scopeId string, query string, n int) ([]docModel.RetrievalResult, error)
}

// Engine answers single-tier semantic queries. Pure read: safe under
// concurrent ingestion into unrelated collections.
type Engine struct {
	collections *collections.Manager
	logger      *logger_i.Logger
}

func NewEngine(manager *collections.Manager) *Engine {
	return &Engine{
		collections: manager,
		logger:      logger_i.NewLogger("Retrieval Engine"),
	}
}

func (e *Engine) Query(ctx context.Context, tier docModel.Tier, scopeId string, query string, n int) ([]docModel.RetrievalResult, error) {
	if n <= 0 {
		n = config.DefaultResultsPerTier
	}
	if n > config.MaxResultsPerTier {
		n = config.MaxResultsPerTier
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("tier_query", time.Since(start)) }()

	results, err := e.collections.Query(ctx, tier, scopeId, query, n)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("tier query", "tier", tier, "results", len(results))
	return results, nil
}
