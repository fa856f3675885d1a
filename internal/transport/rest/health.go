package rest

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/transport"
)

type HealthStatus string

const (
	HealthUp   HealthStatus = "UP"
	HealthDown HealthStatus = "DOWN"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components,omitempty"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	DurationMs int64        `json:"duration_ms"`
}

// Info is served by /actuator/info.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type HealthHandler struct {
	db   *sql.DB
	info Info
}

// NewHealthHandler reports on db when it is non-nil.
func NewHealthHandler(db *sql.DB, info Info) *HealthHandler {
	return &HealthHandler{db: db, info: info}
}

// Health handles GET /actuator/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: HealthUp, CheckedAt: time.Now().UTC()}

	if h.db != nil {
		ctx, cancel := internal.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		start := time.Now()
		err := h.db.PingContext(ctx)
		entry := CheckEntry{Status: HealthUp, DurationMs: time.Since(start).Milliseconds()}
		if err != nil {
			entry.Status = HealthDown
			entry.Message = "database unreachable"
			resp.Status = HealthDown
		}
		resp.Components = map[string]CheckEntry{"db": entry}
	}

	statusCode := http.StatusOK
	if resp.Status == HealthDown {
		statusCode = http.StatusServiceUnavailable
	}
	transport.WriteJSON(w, statusCode, resp, nil)
}

// InfoHandler handles GET /actuator/info
func (h *HealthHandler) InfoHandler(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, h.info, nil)
}
