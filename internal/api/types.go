package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tuttoai/agenda-ai-platform/internal/scheduler"
)

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Details     string   `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// writeSchedulerError maps scheduler errors onto HTTP statuses:
// validation 400, conflict 409 (with alternative slots), backend
// failures 502.
func writeSchedulerError(w http.ResponseWriter, err error) {
	var verr *scheduler.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, "validation_failed", verr.Error())
		return
	}
	var cerr *scheduler.ConflictError
	if errors.As(err, &cerr) {
		labels := make([]string, 0, len(cerr.Suggestions))
		for _, s := range cerr.Suggestions {
			labels = append(labels, s.Label())
		}
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:       "slot_unavailable",
			Details:     cerr.Error(),
			Suggestions: labels,
		})
		return
	}
	if errors.Is(err, scheduler.ErrModifyUnsupported) {
		writeError(w, http.StatusMethodNotAllowed, "modify_unsupported", err.Error())
		return
	}
	var aerr *scheduler.AdapterError
	if errors.As(err, &aerr) {
		writeError(w, http.StatusBadGateway, "backend_failure", aerr.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}
