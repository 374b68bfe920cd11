package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	lderr "github.com/linkden/linkden/internal/errors"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps a domain error to an HTTP status. Validation failures
// carry their message to the client; anything else is opaque with the
// cause logged server-side.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case lderr.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: err.Error(),
			Code:  lderr.GetCode(err),
		})
	case lderr.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: "not found",
			Code:  lderr.GetCode(err),
		})
	default:
		s.logger.Error("request_failed",
			slog.String("path", r.URL.Path),
			slog.String("code", lderr.GetCode(err)),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "retrieval failed",
		})
	}
}

// validationError builds a client-input error without touching the stores.
func validationError(format string, args ...any) error {
	return lderr.Validationf(lderr.ErrCodeInvalidInput, format, args...)
}
