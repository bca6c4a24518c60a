package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gitclixlogix/contentry-knowledge/internal/adapter"
	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, errorMessage string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, errorMessage, httpCode))
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true
	}
}

func traceFrom(r *http.Request) string {
	if trace, ok := r.Context().Value(config.TRACE_ID_KEY).(string); ok {
		return trace
	}
	return ""
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

// scopeParams pulls and validates the (tier, scope_id) pair every
// document-level endpoint requires.
func scopeParams(r *http.Request) (docModel.Tier, string, string) {
	tier := docModel.Tier(r.URL.Query().Get("tier"))
	scopeId := r.URL.Query().Get("scope_id")

	if !tier.IsValid() {
		return "", "", "unknown tier"
	}
	if scopeId == "" {
		return "", "", "scope_id is required"
	}
	return tier, scopeId, ""
}
