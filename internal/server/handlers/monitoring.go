package handlers

import (
	"net/http"
	"time"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/server/responses"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/version"
)

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	snapshot     Snapshot
	startTime    time.Time
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(snapshot Snapshot, adapter *ferrors.HTTPErrorAdapter) *MonitoringHandlers {
	return &MonitoringHandlers{snapshot: snapshot, startTime: time.Now(), errorAdapter: adapter}
}

// HandleHealthCheck reports per-store availability. The status is "degraded"
// when any store failed to load; the endpoint still answers 200.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	repo := h.snapshot.Current()
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		LoadedAt:  repo.LoadedAt,
		Stores:    map[string]responses.StoreHealth{},
	}
	counts := repo.Counts()
	for _, store := range []string{content.StoreBlog, content.StoreProjects, content.StoreTeam} {
		sh := responses.StoreHealth{Available: true, Records: counts[store]}
		if err := repo.Unavailable(store); err != nil {
			sh.Available = false
			sh.Error = err.Error()
			health.Status = "degraded"
		}
		health.Stores[store] = sh
	}

	if err := writeJSON(w, http.StatusOK, health); err != nil {
		internalErr := ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write health response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
