package api

import "time"

// responses---------------------

type IngestResponse struct {
	Success    bool   `json:"success"`
	DocumentId string `json:"document_id" example:"c4f9f2c9-5bb1-4d7a-9a93-2f61a25e2a11"`
	ChunkCount int    `json:"chunk_count" example:"3"`
	Error      string `json:"error,omitempty"`
}

type ContextResponse struct {
	Context string `json:"context"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type StatsResponse struct {
	DocumentCount int64 `json:"document_count"`
	ChunkCount    int64 `json:"chunk_count"`
	HasKnowledge  bool  `json:"has_knowledge"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status       string          `json:"status"`
	IngestResult *IngestResponse `json:"ingest_result,omitempty"`
}

// requests---------------------

type ContextRequest struct {
	Query          string `json:"query" validate:"required"`
	UserId         string `json:"user_id" validate:"required"`
	CompanyId      string `json:"company_id,omitempty"`
	ProfileId      string `json:"profile_id,omitempty"`
	ProfileType    string `json:"profile_type" example:"personal"`
	ResultsPerTier int    `json:"results_per_tier,omitempty"`
}
