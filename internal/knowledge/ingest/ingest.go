package ingest

import (
	"context"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/jobModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/chunker"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/collections"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/extract"
	"github.com/gitclixlogix/contentry-knowledge/internal/metrics"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
	"github.com/google/uuid"
)

type Request struct {
	Content    []byte
	Filename   string
	Tier       docModel.Tier
	ScopeId    string
	UploaderId string
}

// Pipeline runs extract -> chunk -> bulk chunk write -> metadata write. The
// document record is only marked processed after the chunk write completes,
// so anything listed as processed is retrievable. Failures after the id is
// allocated still persist a failed record - uploads never vanish silently.
type Pipeline struct {
	collections *collections.Manager
	documents   docModel.DocumentStore
	chunker     *chunker.Chunker
	logger      *logger_i.Logger
}

func NewPipeline(manager *collections.Manager, documents docModel.DocumentStore) *Pipeline {
	return &Pipeline{
		collections: manager,
		documents:   documents,
		chunker:     chunker.NewChunker(config.ChunkSize, config.ChunkOverlap),
		logger:      logger_i.NewLogger("Document Ingestion"),
	}
}

func (p *Pipeline) Ingest(ctx context.Context, req Request) jobModel.IngestResult {
	start := time.Now()
	log := p.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "filename", req.Filename)

	doc := docModel.Document{
		Id:          uuid.New().String(),
		Tier:        req.Tier,
		ScopeId:     req.ScopeId,
		UploaderId:  req.UploaderId,
		Filename:    req.Filename,
		ByteSize:    len(req.Content),
		CreatedTime: time.Now(),
	}
	log = log.With("document Id", doc.Id)

	extractStart := time.Now()
	text, err := extract.Text(req.Content, req.Filename)
	metrics.CaptureExecutionMetrics("extraction", time.Since(extractStart))
	if err != nil {
		log.Error("extraction failed", "error", err)
		return p.fail(ctx, doc, err, start)
	}

	text = chunker.Normalize(text)
	doc.TextLength = len(text)
	if doc.TextLength < config.MinExtractedTextLength {
		err = &docModel.EmptyDocumentError{TextLength: doc.TextLength}
		log.Error("document below usefulness threshold", "error", err)
		return p.fail(ctx, doc, err, start)
	}

	pieces := p.chunker.Split(text)
	chunks := make([]docModel.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = docModel.Chunk{
			ChunkId:    collections.ChunkPointId(doc.Id, i),
			DocumentId: doc.Id,
			Content:    piece,
			Index:      i,
			Tier:       req.Tier,
			ScopeId:    req.ScopeId,
			Filename:   req.Filename,
		}
	}
	log.Debug("chunked document", "chunks", len(chunks), "textLength", doc.TextLength)

	if err = p.collections.Add(ctx, req.Tier, req.ScopeId, chunks); err != nil {
		log.Error("chunk write failed", "error", err)
		return p.fail(ctx, doc, err, start)
	}

	doc.ChunkCount = len(chunks)
	doc.Status = docModel.StatusProcessed
	doc.ProcessedTime = time.Now()
	if err = p.documents.SaveDocument(ctx, doc); err != nil {
		// Chunks are already live; the deterministic ids keep this repairable.
		log.Error("metadata write failed after chunk write", "error", err)
		metrics.CaptureIngestMetrics("failed", time.Since(start))
		return jobModel.IngestResult{
			Success:    false,
			DocumentId: doc.Id,
			ChunkCount: doc.ChunkCount,
			Error:      "document indexed but metadata write failed: " + err.Error(),
		}
	}

	log.Info("document ingested", "chunks", doc.ChunkCount)
	metrics.CaptureIngestMetrics("processed", time.Since(start))
	return jobModel.IngestResult{
		Success:    true,
		DocumentId: doc.Id,
		ChunkCount: doc.ChunkCount,
	}
}

// fail records the failure as a first-class document so the upload stays
// auditable, then reports it to the caller with the allocated id.
func (p *Pipeline) fail(ctx context.Context, doc docModel.Document, cause error, start time.Time) jobModel.IngestResult {
	doc.Status = docModel.StatusFailed
	doc.ErrorMessage = cause.Error()
	doc.ProcessedTime = time.Now()

	if err := p.documents.SaveDocument(ctx, doc); err != nil {
		p.logger.Error("could not persist failed document record", "document Id", doc.Id, "error", err)
	}

	metrics.CaptureIngestMetrics("failed", time.Since(start))
	return jobModel.IngestResult{
		Success:    false,
		DocumentId: doc.Id,
		Error:      cause.Error(),
	}
}
