package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/adapter/utils"
	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/jobModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/job"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge"
	"github.com/gitclixlogix/contentry-knowledge/internal/metrics"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service          *job.Service
	knowledgeService knowledge.Service
}

func InitHandlers(jobService *job.Service, knowledgeService knowledge.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{
			service:          jobService,
			knowledgeService: knowledgeService,
		}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

// CreateIngestJob queues one spooled upload and returns the job id the
// caller polls with.
func CreateIngestJob(form ingestForm, traceId string) string {
	jobId := utils.GetNewUUID()
	logJH.With("traceId", traceId, "job id", jobId)
	logJH.Info("To create new ingest job")
	handlerInstance.pushToJobChannel(form, jobId, traceId)
	return jobId
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(form ingestForm, jobId string, traceId string) {

	_job := jobModel.Job{}
	_job.Id = jobId
	_job.CreatedTime = time.Now()
	_job.TraceId = traceId
	_job.Status = jobModel.JobStatusQueued
	_job.CurrentStep = jobModel.IngestInit
	_job.JobPayload.Tier = form.tier
	_job.JobPayload.ScopeId = form.scopeId
	_job.JobPayload.UploaderId = form.uploaderId
	_job.JobPayload.IngestFileName = form.filename
	_job.JobPayload.IngestURL = form.tempPath

	// Persist before queueing so a poll racing the worker finds the job.
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if err := h.service.JobStore.SaveJob(ctxC, _job); err != nil {
		logJH.Error("Failed to save queued job", "err", err)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new ingest job")

	//ingestion involves batch embedding which might take time - external system call
	//so every ingest job also signals the dispatcher; idle workers retire on their own
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	logJH.Debug("Request count ", accurateCount)
	metrics.StartDispatcherSignalCount() //metrics
	h.service.DispatcherChannel <- true
}
