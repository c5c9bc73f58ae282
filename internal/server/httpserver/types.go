package httpserver

import (
	"log/slog"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/yuin/goldmark"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/ogimage"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/server/handlers"
)

// LiveReloadHub supports the LiveReload SSE endpoint and broadcast notifications.
type LiveReloadHub interface {
	http.Handler
	Broadcast(hash string)
	Shutdown()
}

// Options configures additional server wiring that is runtime-specific.
type Options struct {
	// Snapshot provides the repository for each request. Required.
	Snapshot handlers.Snapshot

	// Images renders preview cards; a renderer without assets is used when nil.
	Images *ogimage.Renderer

	// Markdown renders blog paragraphs; goldmark defaults when nil.
	Markdown goldmark.Markdown

	// Optional: Prometheus registry served on the metrics path.
	Registry *prom.Registry
	Recorder metrics.Recorder

	// Optional: live reload support (preview mode).
	LiveReloadHub LiveReloadHub

	Logger *slog.Logger
}
