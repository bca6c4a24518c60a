package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/adapter"
	"github.com/gitclixlogix/contentry-knowledge/internal/adapter/utils"
	"github.com/gitclixlogix/contentry-knowledge/internal/api"
	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/assembler"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/ingest"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
)

var logRH *logger_i.Logger

type ingestForm struct {
	tier       docModel.Tier
	scopeId    string
	uploaderId string
	filename   string
	content    []byte
	tempPath   string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// IngestHandler godoc
// @Summary      Ingest a document synchronously
// @Description  Receives a file via multipart/form-data, extracts and indexes it into the (tier, scope_id) collection, and returns the ingest outcome. A failed ingest still returns the allocated document id.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        tier         formData  string  true  "Knowledge tier (company_universal | company_professional | user | profile)"
// @Param        scope_id     formData  string  true  "Scope id within the tier"
// @Param        uploader_id  formData  string  true  "Id of the uploading user"
// @Param        document     formData  file    true  "The document to ingest"
// @Success      200  {object}  api.IngestResponse
// @Failure      400  {object}  api.JobResponse
// @Router       /documents [post]
func IngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}

	form, errMessage := parseIngestForm(r, false)
	if errMessage != "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", errMessage)
		return
	}

	result := handlerInstance.knowledgeService.IngestDocument(r.Context(), ingest.Request{
		Content:    form.content,
		Filename:   form.filename,
		Tier:       form.tier,
		ScopeId:    form.scopeId,
		UploaderId: form.uploaderId,
	})
	writeJsonResponse(w, http.StatusOK, adapter.ToIngestResponse(result))
}

// AsyncIngestHandler godoc
// @Summary      Queue a document for ingestion
// @Description  Saves the upload to a temporary directory and queues an ingestion job; poll /jobs/{id} for the outcome.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        tier         formData  string  true  "Knowledge tier"
// @Param        scope_id     formData  string  true  "Scope id within the tier"
// @Param        uploader_id  formData  string  true  "Id of the uploading user"
// @Param        document     formData  file    true  "The document to ingest"
// @Success      202  {object}  api.InitJobResponse
// @Failure      400  {object}  api.JobResponse
// @Router       /documents/async [post]
func AsyncIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}

	form, errMessage := parseIngestForm(r, true)
	if errMessage != "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", errMessage)
		return
	}

	jobId := CreateIngestJob(form, traceFrom(r))
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(jobId))
}

// JobStatusHandler godoc
// @Summary      Get ingestion job status
// @Tags         Jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse
// @Failure      404  {object}  api.JobResponse
// @Router       /jobs/{id} [get]
func JobStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	result, isFound := GetJobStatus(idString, traceFrom(r))
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToJobResponse(result))
}

// ContextHandler godoc
// @Summary      Assemble tiered knowledge context
// @Description  Runs the tier inclusion policy and returns one directive-annotated context string. Best-effort: a tier failure reduces the context, it never fails the request. An empty context means no knowledge matched.
// @Tags         Context
// @Accept       json
// @Produce      json
// @Param        request  body      api.ContextRequest  true  "Query and scope identifiers"
// @Success      200      {object}  api.ContextResponse
// @Failure      400      {object}  api.JobResponse
// @Router       /context [post]
func ContextHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.ContextRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the context request reader", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}
	if requestData.Query == "" || requestData.UserId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "query and user_id are required")
		return
	}
	profileType := docModel.ProfileType(requestData.ProfileType)
	if !profileType.IsValid() {
		WriteErrorResponse(w, http.StatusBadRequest, "", "profile_type must be personal or company")
		return
	}

	assembled := handlerInstance.knowledgeService.QueryTieredContext(r.Context(), assembler.Request{
		Query:          requestData.Query,
		UserId:         requestData.UserId,
		CompanyId:      requestData.CompanyId,
		ProfileId:      requestData.ProfileId,
		ProfileType:    profileType,
		ResultsPerTier: requestData.ResultsPerTier,
	})
	writeJsonResponse(w, http.StatusOK, api.ContextResponse{Context: assembled})
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document and its chunks
// @Tags         Documents
// @Produce      json
// @Param        id        path   string  true  "Document ID"
// @Param        tier      query  string  true  "Knowledge tier"
// @Param        scope_id  query  string  true  "Scope id within the tier"
// @Success      200  {object}  api.DeleteResponse
// @Failure      400  {object}  api.JobResponse
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	documentId := utils.GetChiURLParam(r, "id")
	tier, scopeId, errMessage := scopeParams(r)
	if errMessage != "" {
		WriteErrorResponse(w, http.StatusBadRequest, documentId, errMessage)
		return
	}

	deleted, err := handlerInstance.knowledgeService.DeleteDocument(r.Context(), documentId, tier, scopeId)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Delete failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.DeleteResponse{Deleted: deleted})
}

// StatsHandler godoc
// @Summary      Knowledge stats for one scope
// @Tags         Stats
// @Produce      json
// @Param        tier      query  string  true  "Knowledge tier"
// @Param        scope_id  query  string  true  "Scope id within the tier"
// @Success      200  {object}  api.StatsResponse
// @Failure      400  {object}  api.JobResponse
// @Router       /stats [get]
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	tier, scopeId, errMessage := scopeParams(r)
	if errMessage != "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", errMessage)
		return
	}

	stats, err := handlerInstance.knowledgeService.ScopeStats(r.Context(), tier, scopeId)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Stats unavailable")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.StatsResponse{
		DocumentCount: stats.DocumentCount,
		ChunkCount:    stats.ChunkCount,
		HasKnowledge:  stats.HasKnowledge,
	})
}

// parseIngestForm validates the multipart upload shared by both ingest
// endpoints. Synchronous ingestion keeps the bytes in memory; the async
// path spools them to the temp directory for the worker instead.
func parseIngestForm(r *http.Request, spoolToDisk bool) (ingestForm, string) {
	var form ingestForm

	if err := r.ParseMultipartForm(config.MaxUploadSizeBytes); err != nil {
		return form, "File too large or bad request"
	}

	form.tier = docModel.Tier(r.FormValue("tier"))
	form.scopeId = r.FormValue("scope_id")
	form.uploaderId = r.FormValue("uploader_id")
	if !form.tier.IsValid() {
		return form, "unknown tier"
	}
	if form.scopeId == "" || form.uploaderId == "" {
		return form, "scope_id and uploader_id are required"
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		return form, "Could not retrieve file"
	}
	defer fileReader.Close()
	form.filename = fileMetadata.Filename

	if !spoolToDisk {
		content, err := io.ReadAll(fileReader)
		if err != nil {
			return form, "Read error"
		}
		form.content = content
		return form, ""
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory", "err", errString)
		return form, errString
	}

	tempName := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	form.tempPath = filepath.Join(targetDir, tempName)
	destinationFileWriter, err := os.Create(form.tempPath)
	if err != nil {
		return form, "Storage error"
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		return form, "Write error"
	}
	return form, ""
}
