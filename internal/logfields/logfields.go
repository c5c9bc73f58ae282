package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyEntityKind = "entity_kind"
	KeyEntityID   = "entity_id"
	KeyStore      = "store"
	KeyArtifact   = "artifact"
	KeyCount      = "count"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySchedule   = "schedule"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyRoute      = "route"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyResponseSz = "response_size"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyRequestID  = "request_id"
	KeyURL        = "url"
	KeyValue      = "value"
	KeyGeneration = "generation"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func EntityKind(k string) slog.Attr   { return slog.String(KeyEntityKind, k) }
func EntityID(id string) slog.Attr    { return slog.String(KeyEntityID, id) }
func Store(name string) slog.Attr     { return slog.String(KeyStore, name) }
func Artifact(name string) slog.Attr  { return slog.String(KeyArtifact, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Schedule(expr string) slog.Attr  { return slog.String(KeySchedule, expr) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func ResponseSize(n int) slog.Attr    { return slog.Int(KeyResponseSz, n) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Value(v string) slog.Attr        { return slog.String(KeyValue, v) }
func Generation(n uint64) slog.Attr   { return slog.Uint64(KeyGeneration, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
