package adapter

import (
	"fmt"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/api"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("jobs/%s", id),
	}
}

func ToIngestResponse(result jobModel.IngestResult) api.IngestResponse {
	return api.IngestResponse{
		Success:    result.Success,
		DocumentId: result.DocumentId,
		ChunkCount: result.ChunkCount,
		Error:      result.Error,
	}
}

func ToJobResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	var ingestPtr *api.IngestResponse
	if job.JobPayload.Result != nil {
		converted := ToIngestResponse(*job.JobPayload.Result)
		ingestPtr = &converted
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result: api.Result{
			Status:       string(job.Status),
			IngestResult: ingestPtr,
		},
	}
}

func BadRequest(id string, errorMessage string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(jobModel.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: errorMessage,
			Retry:   false,
		},
	}
}
