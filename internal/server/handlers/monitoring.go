package handlers

import (
	"net/http"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/server/responses"
)

// MonitoringHandlers contains health endpoints.
type MonitoringHandlers struct {
	holder  *content.Holder
	version string
}

// NewMonitoringHandlers creates monitoring handlers.
func NewMonitoringHandlers(holder *content.Holder, version string) *MonitoringHandlers {
	return &MonitoringHandlers{holder: holder, version: version}
}

// HandleHealth reports liveness. The server always has a snapshot to serve,
// so health never depends on the content.
func (h *MonitoringHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	snap := h.holder.Load()
	_ = writeJSON(w, http.StatusOK, responses.HealthResponse{
		Status:  "ok",
		Pages:   snap.Len(),
		Hash:    snap.Hash(),
		BuiltAt: snap.BuiltAt().UTC(),
		Version: h.version,
	})
}
