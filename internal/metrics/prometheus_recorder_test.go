package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveHTTPRequest("/blog/{id}", http.MethodGet, 200, 15*time.Millisecond)
	pr.ObserveRenderDuration("feed", 2*time.Millisecond)
	pr.IncNotFound("team")
	pr.IncSourceUnavailable("projects")
	pr.IncMalformedDate("blog")
	pr.IncReload(ReloadSuccess)
	pr.SetStoreRecords("blog", 12)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"contentfeed_http_requests_total",
		"contentfeed_render_duration_seconds",
		"contentfeed_not_found_total",
		"contentfeed_source_unavailable_total",
		"contentfeed_malformed_dates_total",
		"contentfeed_data_reloads_total",
		"contentfeed_store_records",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg).IncNotFound("blog")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `contentfeed_not_found_total{kind="blog"} 1`))
}

func TestNilAndNoopRecorders(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncNotFound("blog")
		pr.ObserveHTTPRequest("/", "GET", 200, time.Millisecond)
	})

	r := OrNoop(nil)
	_, ok := r.(NoopRecorder)
	assert.True(t, ok)
	r.IncReload(ReloadFailed)
}
