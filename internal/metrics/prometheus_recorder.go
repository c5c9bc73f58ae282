package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "contentfeed"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	httpDuration      *prom.HistogramVec
	httpRequests      *prom.CounterVec
	renderDuration    *prom.HistogramVec
	notFound          *prom.CounterVec
	sourceUnavailable *prom.CounterVec
	malformedDates    *prom.CounterVec
	reloads           *prom.CounterVec
	storeRecords      *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the contentfeed metrics on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "method"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code",
		}, []string{"route", "method", "status"}),
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent building a feed, sitemap or preview image",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"artifact"}),
		notFound: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "not_found_total",
			Help:      "Entity lookups that fell back to a not-found view or card",
		}, []string{"kind"}),
		sourceUnavailable: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "source_unavailable_total",
			Help:      "Data sources that could not be loaded and contributed nothing",
		}, []string{"store"}),
		malformedDates: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_dates_total",
			Help:      "Records whose date could not be parsed",
		}, []string{"store"}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "data_reloads_total",
			Help:      "Live data reloads by outcome",
		}, []string{"outcome"}),
		storeRecords: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "store_records",
			Help:      "Number of records in the current snapshot by store",
		}, []string{"store"}),
	}
	reg.MustRegister(pr.httpDuration, pr.httpRequests, pr.renderDuration, pr.notFound,
		pr.sourceUnavailable, pr.malformedDates, pr.reloads, pr.storeRecords)
	return pr
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route, method string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
	p.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

func (p *PrometheusRecorder) ObserveRenderDuration(artifact string, d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.WithLabelValues(artifact).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncNotFound(kind string) {
	if p == nil {
		return
	}
	p.notFound.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncSourceUnavailable(store string) {
	if p == nil {
		return
	}
	p.sourceUnavailable.WithLabelValues(store).Inc()
}

func (p *PrometheusRecorder) IncMalformedDate(store string) {
	if p == nil {
		return
	}
	p.malformedDates.WithLabelValues(store).Inc()
}

func (p *PrometheusRecorder) IncReload(outcome ReloadOutcome) {
	if p == nil {
		return
	}
	p.reloads.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetStoreRecords(store string, n int) {
	if p == nil {
		return
	}
	p.storeRecords.WithLabelValues(store).Set(float64(n))
}
