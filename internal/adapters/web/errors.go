package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"recipe-costing/internal/app"
	"recipe-costing/internal/core"
	"recipe-costing/internal/logger"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeServiceError maps an application error to a status and error code.
// Domain errors keep their own code; anything unrecognised is a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, app.ErrStaleVersion):
		writeError(w, r, err.Error(), "STALE_VERSION", http.StatusConflict)
	case core.CodeOf(err) == core.CodeValidation:
		writeError(w, r, err.Error(), string(core.CodeValidation), http.StatusBadRequest)
	case core.CodeOf(err) != "":
		writeError(w, r, err.Error(), string(core.CodeOf(err)), http.StatusUnprocessableEntity)
	default:
		logger.Error(r.Context(), "request failed", logger.ErrorF(err))
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
