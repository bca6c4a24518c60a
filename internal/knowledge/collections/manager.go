package collections

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/embedding"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/vectorDB"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
	"github.com/google/uuid"
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// Manager resolves (tier, scope-id) pairs to physically separate vector
// collections and exposes text-level operations on them. Isolation is
// structural: a query runs against exactly one collection, so it cannot see
// another scope's chunks no matter what filters say.
type Manager struct {
	vectorDB vectorDB.DataProcessor
	embedder embedding.Embedder
	logger   *logger_i.Logger
}

func NewManager(vector vectorDB.DataProcessor, em embedding.Embedder) *Manager {
	return &Manager{
		vectorDB: vector,
		embedder: em,
		logger:   logger_i.NewLogger("Tier Collections"),
	}
}

func SanitizeScopeId(scopeId string) string {
	return unsafeNameChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(scopeId)), "_")
}

func CollectionName(tier docModel.Tier, scopeId string) string {
	return string(tier) + "_" + SanitizeScopeId(scopeId)
}

// ChunkPointId derives the vector point id for one chunk. Ids are a pure
// function of document id + index, so the full id set of any document can be
// re-derived from its metadata record for deletion or repair.
func ChunkPointId(documentId string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(documentId+":"+strconv.Itoa(index))).String()
}

// Resolve returns the collection name for writes, creating the collection on
// first use. There is no explicit provisioning step.
func (m *Manager) Resolve(ctx context.Context, tier docModel.Tier, scopeId string) (string, error) {
	if !tier.IsValid() {
		return "", fmt.Errorf("unknown tier %q", tier)
	}
	name := CollectionName(tier, scopeId)
	if err := m.vectorDB.EnsureCollection(ctx, name); err != nil {
		return "", fmt.Errorf("ensure collection %s: %w", name, err)
	}
	return name, nil
}

// resolveForRead never creates anything. Profile-tier reads fall back to the
// pre-tiering single-key collection name when the canonical one is absent.
func (m *Manager) resolveForRead(ctx context.Context, tier docModel.Tier, scopeId string) (string, bool, error) {
	name := CollectionName(tier, scopeId)
	exists, err := m.vectorDB.CollectionExists(ctx, name)
	if err != nil {
		return "", false, err
	}
	if exists {
		return name, true, nil
	}

	if tier == docModel.TierProfile {
		legacy := SanitizeScopeId(scopeId)
		legacyExists, err := m.vectorDB.CollectionExists(ctx, legacy)
		if err != nil {
			return "", false, err
		}
		if legacyExists {
			return legacy, true, nil
		}
	}
	return "", false, nil
}

// Add embeds the chunk texts and writes them in one bulk call.
func (m *Manager) Add(ctx context.Context, tier docModel.Tier, scopeId string, chunks []docModel.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	name, err := m.Resolve(ctx, tier, scopeId)
	if err != nil {
		return err
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := m.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding batch failed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	return m.vectorDB.UpsertBatch(ctx, name, chunks, vectors)
}

// Query runs a semantic query against one tier's collection. A missing or
// empty collection yields an empty result, never an error; k is capped at
// the stored point count.
func (m *Manager) Query(ctx context.Context, tier docModel.Tier, scopeId string, query string, k int) ([]docModel.RetrievalResult, error) {
	name, exists, err := m.resolveForRead(ctx, tier, scopeId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	stored, err := m.vectorDB.Count(ctx, name)
	if err != nil {
		return nil, err
	}
	if stored == 0 {
		return nil, nil
	}
	limit := uint64(k)
	if limit > stored {
		limit = stored
	}

	queryVector, err := m.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	points, err := m.vectorDB.Query(ctx, name, queryVector, limit)
	if err != nil {
		return nil, err
	}

	results := make([]docModel.RetrievalResult, 0, len(points))
	for _, point := range points {
		results = append(results, docModel.RetrievalResult{
			Content:  point.Content,
			Metadata: point.Metadata,
			Distance: point.Distance,
		})
	}
	return results, nil
}

func (m *Manager) Count(ctx context.Context, tier docModel.Tier, scopeId string) (uint64, error) {
	name, exists, err := m.resolveForRead(ctx, tier, scopeId)
	if err != nil || !exists {
		return 0, err
	}
	return m.vectorDB.Count(ctx, name)
}

// DeleteDocumentChunks removes a document's chunks by re-deriving their
// point ids from the recorded chunk count. When the count is unknown it
// falls back to a payload filter on the document id.
func (m *Manager) DeleteDocumentChunks(ctx context.Context, tier docModel.Tier, scopeId string, documentId string, chunkCount int) error {
	name, exists, err := m.resolveForRead(ctx, tier, scopeId)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if chunkCount <= 0 {
		return m.vectorDB.DeleteByDocument(ctx, name, documentId)
	}

	ids := make([]string, chunkCount)
	for i := 0; i < chunkCount; i++ {
		ids[i] = ChunkPointId(documentId, i)
	}
	return m.vectorDB.DeletePoints(ctx, name, ids)
}
