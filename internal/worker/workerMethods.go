package worker

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	jobmodel "github.com/gitclixlogix/contentry-knowledge/internal/domain/jobModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/ingest"
	"github.com/gitclixlogix/contentry-knowledge/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureIngestMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 60*time.Second)
	defer cancel()
	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	job.CurrentStep = jobmodel.IngestProcessing
	job = ingestDocument(ctx, job)

	job.EndTime = time.Now()
	if job.Status == jobmodel.JobStatusError {
		saveJobState(ctx, job, jobmodel.JobStatusError)
		return
	}
	saveJobState(ctx, job, jobmodel.JobStatusComplete)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

// ingestDocument reads the spooled upload, runs the full ingestion path
// and records the outcome on the job. The temp file is removed whatever
// happens; a re-run would requeue the upload, not reuse the spool.
func ingestDocument(ctx context.Context, job jobmodel.Job) jobmodel.Job {
	content, err := os.ReadFile(job.JobPayload.IngestURL)
	if err != nil {
		logger.Error("Failed to read spooled upload", "err", err, "path", job.JobPayload.IngestURL)
		job.Status = jobmodel.JobStatusError
		job.CurrentStep = jobmodel.Error
		job.Error = jobmodel.JobError{
			Code:    500,
			Message: fmt.Sprintf("upload no longer available: %v", err),
			Retry:   true,
		}
		return job
	}
	defer func() {
		if err := os.Remove(job.JobPayload.IngestURL); err != nil {
			logger.Warn("Failed to remove spooled upload", "err", err)
		}
	}()

	result := _knowledgeService.IngestDocument(ctx, ingest.Request{
		Content:    content,
		Filename:   job.JobPayload.IngestFileName,
		Tier:       job.JobPayload.Tier,
		ScopeId:    job.JobPayload.ScopeId,
		UploaderId: job.JobPayload.UploaderId,
	})
	job.JobPayload.Result = &result

	if !result.Success {
		job.Status = jobmodel.JobStatusError
		job.CurrentStep = jobmodel.Error
		job.Error = jobmodel.JobError{
			Code:    422,
			Message: result.Error,
			Retry:   false,
		}
		return job
	}

	job.CurrentStep = jobmodel.Complete
	return job
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
