package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/craftconnect/tasktrigger/internal/platform/logger"
	"github.com/craftconnect/tasktrigger/internal/redact"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"-"` // Not serialized to JSON, used for logging
	RequestID string `json:"request_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status code and message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithJSON(w, r, status, ErrorResponse{
		Error:     message,
		Code:      status,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// RespondWithErrorAndLog writes a JSON error response and logs the redacted error.
// The raw error never reaches the client.
//
// 5xx errors are logged at ERROR, 4xx at WARN since a rejected event usually
// means a misconfigured trigger.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	requestID := middleware.GetReqID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), logLevel, "event delivery failed", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:     userMessage,
		Code:      status,
		RequestID: requestID,
	})
}
