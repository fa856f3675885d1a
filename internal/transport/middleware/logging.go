package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/go-chi/chi/middleware"
)

// maxLoggedBody caps how much of a request or response body is logged.
const maxLoggedBody = 16 << 10

// sensitiveFields are field names that should be filtered from logs
var sensitiveFields = []string{
	"password",
	"password_hash",
	"passwordhash",
	"token",
	"access_token",
	"refresh_token",
	"authorization",
	"secret",
	"key",
	"api_key",
	"session",
	"credential",
	"auth",
}

// quietPaths are logged at debug level only.
var quietPaths = []string{"/actuator/health"}

func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())
			quiet := isQuiet(r.URL.Path)

			if !quiet {
				logRequest(logger, r, reqID)
			}

			body := &cappedBuffer{limit: maxLoggedBody}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(body)

			next.ServeHTTP(ww, r)

			logResponse(logger, r, ww, body, time.Since(start), reqID, quiet)
		})
	}
}

func isQuiet(path string) bool {
	for _, p := range quietPaths {
		if path == p {
			return true
		}
	}
	return false
}

// cappedBuffer keeps the first limit bytes written to it and drops the rest.
type cappedBuffer struct {
	bytes.Buffer
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.Len(); room < len(p) {
		b.truncated = true
		if room > 0 {
			b.Buffer.Write(p[:room])
		}
		return len(p), nil
	}
	return b.Buffer.Write(p)
}

// logRequest logs the incoming HTTP request with sensitive data filtered
func logRequest(logger *slog.Logger, r *http.Request, reqID string) {
	var bodyBytes []byte
	if r.Body != nil && r.Body != http.NoBody {
		bodyBytes, _ = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
		r.Body = readCloser{io.MultiReader(bytes.NewReader(bodyBytes), r.Body), r.Body}
	}

	logged := "[TRUNCATED]"
	if len(bodyBytes) <= maxLoggedBody {
		logged = filterSensitiveBody(bodyBytes)
	}

	logger.InfoContext(r.Context(), "incoming request",
		"request_id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
		"body", logged,
	)
}

type readCloser struct {
	io.Reader
	io.Closer
}

func logResponse(logger *slog.Logger, r *http.Request, ww middleware.WrapResponseWriter, body *cappedBuffer, duration time.Duration, reqID string, quiet bool) {
	statusCode := ww.Status()
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	logLevel := slog.LevelInfo
	switch {
	case quiet && statusCode < 500:
		logLevel = slog.LevelDebug
	case statusCode >= 400 && statusCode < 500:
		logLevel = slog.LevelWarn
	case statusCode >= 500:
		logLevel = slog.LevelError
	}

	logged := "[TRUNCATED]"
	if !body.truncated {
		logged = filterSensitiveBody(body.Bytes())
	}

	attrs := []any{
		"request_id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
		"response_size", ww.BytesWritten(),
		"body", logged,
	}
	if p, ok := internal.PrincipalFromContext(r.Context()); ok {
		attrs = append(attrs, "user_id", p.UserID)
	}

	logger.Log(r.Context(), logLevel, "response", attrs...)
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, sensitiveField := range sensitiveFields {
		if strings.Contains(lower, sensitiveField) {
			return true
		}
	}
	return false
}

// filterSensitiveHeaders removes or masks sensitive headers
func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			filtered[name] = "[FILTERED]"
		} else {
			filtered[name] = strings.Join(values, ", ")
		}
	}
	return filtered
}

// filterSensitiveBody removes or masks sensitive fields from JSON body
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var jsonData interface{}
	if err := json.Unmarshal(body, &jsonData); err != nil {
		bodyStr := string(body)
		if isSensitive(bodyStr) {
			return "[FILTERED - Contains sensitive data]"
		}
		return bodyStr
	}

	filteredBytes, err := json.Marshal(filterSensitiveJSON(jsonData))
	if err != nil {
		return "[ERROR - Failed to marshal filtered JSON]"
	}
	return string(filteredBytes)
}

// filterSensitiveJSON recursively filters sensitive fields from JSON data
func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		filtered := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				filtered[key] = "[FILTERED]"
			} else {
				filtered[key] = filterSensitiveJSON(value)
			}
		}
		return filtered
	case []interface{}:
		filtered := make([]interface{}, len(v))
		for i, item := range v {
			filtered[i] = filterSensitiveJSON(item)
		}
		return filtered
	default:
		return v
	}
}
