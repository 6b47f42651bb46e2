package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/learnflow/learnflow-api/internal/redact"
)

// ErrorResponse is the standard shape for all error payloads returned by
// the API. TraceID lets a client report a failure that can be correlated
// with the server logs.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code.
// Encoding failures after the header is written can only be logged.
func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode JSON response",
			slog.String("error", err.Error()),
			slog.Int("status", status))
	}
}

// RespondWithError writes a standardized JSON error response. The message
// must already be safe for external consumption; use the error mapping
// helpers rather than passing raw internal errors.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := ErrorResponse{
		Error:   message,
		TraceID: GetTraceID(r.Context()),
	}
	RespondWithJSON(w, status, resp)
}

// RespondWithErrorAndLog writes a safe error response to the client and
// logs the underlying error with sensitive content redacted.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	err error,
	logger *slog.Logger,
) {
	if logger == nil {
		logger = slog.Default()
	}

	if err != nil {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("error", redact.Error(err)),
			slog.Int("status", status),
			slog.String("path", r.URL.Path),
			slog.String("method", r.Method),
			slog.String("trace_id", GetTraceID(r.Context())))
	}

	RespondWithError(w, r, status, message)
}
