package jobModel

import (
	"context"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"
	Complete         InternalStatus = "Complete"
)

// Job is one queued document ingestion. The synchronous ingest endpoint
// bypasses this entirely; jobs exist so large uploads can be polled.
type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Tier           docModel.Tier `json:"tier"`
	ScopeId        string        `json:"scope_id"`
	UploaderId     string        `json:"uploader_id"`
	IngestFileName string        `json:"ingest_file_name"`
	IngestURL      string        `json:"ingest_url"`

	Result *IngestResult `json:"result,omitempty"`
}

// IngestResult mirrors what the synchronous endpoint returns. A failed
// ingest still carries the allocated document id so the failure is auditable.
type IngestResult struct {
	Success    bool   `json:"success"`
	DocumentId string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
	Error      string `json:"error,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
