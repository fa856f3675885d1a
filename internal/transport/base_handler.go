package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/pkg/logger"
)

const bearerPrefix = "Bearer "

// SuccessResponse is the envelope of every successful API response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope of every failed API response.
type ErrorResponse struct {
	Success   bool                       `json:"success"`
	Message   string                     `json:"message"`
	Code      internal.ErrorCode         `json:"code,omitempty"`
	Errors    []internal.ValidationError `json:"errors,omitempty"`
	Timestamp string                     `json:"timestamp"`
}

// NewErrorResponse builds an error envelope stamped with the current time.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, data, h.Logger)
}

// WriteSuccess wraps data in the success envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.WriteJSON(w, status, SuccessResponse{Success: true, Message: message, Data: data})
}

// WriteAppError maps err onto the error envelope. Anything that is not an
// AppError is logged with its cause and answered with a generic 500.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	WriteAppError(w, r, err, h.Logger)
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, lg *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && lg != nil {
		lg.Error("failed to encode JSON response", "error", err)
	}
}

func WriteAppError(w http.ResponseWriter, r *http.Request, err error, lg *slog.Logger) {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	if r != nil {
		lg = logger.FromOr(r.Context(), lg)
	}

	appErr, ok := internal.IsAppError(err)
	if !ok || appErr.Type == internal.ErrorTypeInternal {
		lg.Error("unhandled error", "error", err)
		resp := NewErrorResponse("An unexpected error occurred")
		resp.Code = internal.ErrCodeInternal
		WriteJSON(w, http.StatusInternalServerError, resp, lg)
		return
	}

	lg.Warn("request failed", "status", appErr.StatusCode, "code", appErr.Code, "detail", appErr.GetDetailedMessage())

	resp := NewErrorResponse(appErr.Message)
	resp.Code = appErr.Code
	resp.Errors = appErr.FieldErrors()
	WriteJSON(w, appErr.StatusCode, resp, lg)
}

// ExtractBearerToken returns the token of an "Authorization: Bearer" header,
// or "" when the header is absent or uses another scheme.
func ExtractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(bearerPrefix):])
}

// TokenPrefix shortens a token for debug logs.
func TokenPrefix(token string) string {
	if len(token) > 12 {
		return token[:12] + "..."
	}
	return token
}
