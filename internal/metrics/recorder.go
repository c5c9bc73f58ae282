package metrics

import "time"

// ReloadOutcome enumerates results of a live data reload.
type ReloadOutcome string

const (
	ReloadSuccess ReloadOutcome = "success"
	ReloadFailed  ReloadOutcome = "failed"
)

// Recorder defines observability hooks for content serving and artifact generation.
// Implementations may forward to Prometheus or be swapped for a fake in tests.
type Recorder interface {
	ObserveHTTPRequest(route, method string, status int, d time.Duration)
	ObserveRenderDuration(artifact string, d time.Duration)
	IncNotFound(kind string)
	IncSourceUnavailable(store string)
	IncMalformedDate(store string)
	IncReload(outcome ReloadOutcome)
	SetStoreRecords(store string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveHTTPRequest(string, string, int, time.Duration) {}
func (NoopRecorder) ObserveRenderDuration(string, time.Duration)          {}
func (NoopRecorder) IncNotFound(string)                                   {}
func (NoopRecorder) IncSourceUnavailable(string)                          {}
func (NoopRecorder) IncMalformedDate(string)                              {}
func (NoopRecorder) IncReload(ReloadOutcome)                              {}
func (NoopRecorder) SetStoreRecords(string, int)                          {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
