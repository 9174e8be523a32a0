// internal/app/features/heartbeat/handler.go
package heartbeat

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Handler serves the process liveness endpoint. Unlike /health it never
// touches the database, so it answers even when Mongo is down.
type Handler struct {
	Started time.Time
	Log     *zap.Logger
}

// NewHandler creates a heartbeat handler anchored at process start.
func NewHandler(started time.Time, logger *zap.Logger) *Handler {
	return &Handler{
		Started: started,
		Log:     logger,
	}
}

// heartbeatResponse is the JSON structure for the heartbeat response.
type heartbeatResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	ServerTime    string `json:"server_time"`
}

// Serve handles GET /api/heartbeat.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(heartbeatResponse{
		Status:        "alive",
		UptimeSeconds: int64(now.Sub(h.Started).Seconds()),
		ServerTime:    now.Format(time.RFC3339),
	})
}
