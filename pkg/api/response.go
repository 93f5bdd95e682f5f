package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/magsubs/pkg/ledger"
	"github.com/dmitrymomot/magsubs/pkg/logger"
	"github.com/dmitrymomot/magsubs/pkg/validator"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// HTTPError is a transport-level failure with a fixed status and code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e HTTPError) Error() string {
	return e.Message
}

var (
	ErrMalformedBody = HTTPError{Status: http.StatusUnprocessableEntity, Code: "malformed_body", Message: "Request body must be a valid JSON object"}
	ErrRouteNotFound = HTTPError{Status: http.StatusNotFound, Code: "not_found", Message: "Not found"}
	ErrNotAllowed    = HTTPError{Status: http.StatusMethodNotAllowed, Code: "method_not_allowed", Message: "Method not allowed"}
)

const conflictMessage = "Active subscription already exists for this magazine"

// classifyError maps a core error to its status and public detail. Messages
// of unexpected errors are never exposed.
func classifyError(err error) (int, *ErrorDetail) {
	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "validation_error",
			Message: "Validation failed",
			Details: verrs.Map(),
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, &ErrorDetail{Code: httpErr.Code, Message: httpErr.Message}
	}

	if entity, ok := ledger.NotFoundEntity(err); ok {
		return http.StatusNotFound, &ErrorDetail{Code: "not_found", Message: capitalize(entity) + " not found"}
	}

	if errors.Is(err, ledger.ErrActiveSubscriptionExists) {
		return http.StatusBadRequest, &ErrorDetail{Code: "active_subscription_exists", Message: conflictMessage}
	}

	return http.StatusInternalServerError, &ErrorDetail{
		Code:    "internal_error",
		Message: "An error occurred processing your request",
	}
}

func logLevel(status int) slog.Level {
	if status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respond writes v as a 200 JSON body.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSON(w, http.StatusOK, v); err != nil {
		h.log.WarnContext(r.Context(), "failed to write response", logger.Error(err))
	}
}

// fail classifies err, logs it and writes the error body.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := classifyError(err)

	h.log.LogAttrs(r.Context(), logLevel(status), "request error",
		logger.Error(err),
		slog.Int("status_code", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if werr := writeJSON(w, status, ErrorResponse{Error: detail}); werr != nil {
		h.log.WarnContext(r.Context(), "failed to write error response", logger.Error(werr))
	}
}
