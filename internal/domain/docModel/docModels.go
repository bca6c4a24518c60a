package docModel

import (
	"context"
	"time"
)

type Tier string
type DocumentStatus string
type ProfileType string

const (
	TierCompanyUniversal    Tier = "company_universal"
	TierCompanyProfessional Tier = "company_professional"
	TierUser                Tier = "user"
	TierProfile             Tier = "profile"

	StatusProcessed DocumentStatus = "processed"
	StatusFailed    DocumentStatus = "failed"

	ProfilePersonal ProfileType = "personal"
	ProfileCompany  ProfileType = "company"
)

// Tiers in assembly priority order - universal rules always outrank the rest.
var Tiers = []Tier{TierCompanyUniversal, TierCompanyProfessional, TierUser, TierProfile}

func (t Tier) IsValid() bool {
	switch t {
	case TierCompanyUniversal, TierCompanyProfessional, TierUser, TierProfile:
		return true
	}
	return false
}

func (p ProfileType) IsValid() bool {
	return p == ProfilePersonal || p == ProfileCompany
}

// Document is the metadata record persisted per upload. Status is terminal:
// a failed document is never re-processed, a new upload gets a new record.
type Document struct {
	Id            string         `json:"id"`
	Tier          Tier           `json:"tier"`
	ScopeId       string         `json:"scope_id"`
	UploaderId    string         `json:"uploader_id"`
	Filename      string         `json:"filename"`
	ByteSize      int            `json:"byte_size"`
	TextLength    int            `json:"text_length"`
	ChunkCount    int            `json:"chunk_count"`
	Status        DocumentStatus `json:"status"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	CreatedTime   time.Time      `json:"created_time"`
	ProcessedTime time.Time      `json:"processed_time,omitempty"`
}

// Chunk is one bounded slice of a document's extracted text. Immutable once
// written; its id is derived from the parent document id + index so the full
// id set can be re-derived from the Document record alone.
type Chunk struct {
	ChunkId    string `json:"chunk_id"`
	DocumentId string `json:"document_id"`
	Content    string `json:"content"`
	Index      int    `json:"chunk_index"`
	Tier       Tier   `json:"tier"`
	ScopeId    string `json:"scope_id"`
	Filename   string `json:"filename"`
}

// RetrievalResult is a per-request ranked hit; never persisted.
type RetrievalResult struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Distance float32           `json:"distance"`
}

type ScopeStats struct {
	DocumentCount int64 `json:"document_count"`
	ChunkCount    int64 `json:"chunk_count"`
	HasKnowledge  bool  `json:"has_knowledge"`
}

type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, bool)
	ListDocuments(ctx context.Context, tier Tier, scopeId string) ([]Document, error)
	DeleteDocument(ctx context.Context, id string, tier Tier, scopeId string) error
	CountDocuments(ctx context.Context, tier Tier, scopeId string) (int64, error)
}
