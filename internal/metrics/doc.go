// Package metrics provides observability hooks for contentfeed.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics can stay disabled without nil checks:
//
//	rec := metrics.OrNoop(nil) // NoopRecorder
//
// When monitoring.metrics.enabled is set, commands build a registry with
// NewRegistry, inject NewPrometheusRecorder(reg) and mount HTTPHandler(reg).
package metrics
