package httpserver

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/docsite/internal/history"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/server/handlers"
)

// Options configures the optional parts of the server.
type Options struct {
	// Reloader enables POST /api/reload.
	Reloader handlers.Reloader

	// History backs GET /api/reloads. Nil serves an empty list.
	History history.Store

	// Recorder receives per-route request metrics.
	Recorder metrics.Recorder

	// MetricsHandler is mounted at the configured metrics path when metrics are enabled.
	MetricsHandler http.Handler

	Version string
	Logger  *slog.Logger
}
