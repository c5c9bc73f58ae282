package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
)

// Snapshot hands out the repository a request is served from. Implementations
// must return a fully built, immutable Repository.
type Snapshot interface {
	Current() *content.Repository
}

// StaticSnapshot serves one repository for the lifetime of the process.
type StaticSnapshot struct {
	Repo *content.Repository
}

func (s StaticSnapshot) Current() *content.Repository { return s.Repo }

// writeJSON serializes the provided value to JSON and writes it with the given
// status code. Encoding is performed into an intermediate buffer so that we
// don't send partial responses if serialization fails.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}

// writeBody writes a fully rendered artifact.
func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Debug("failed writing response body", logfields.Error(err))
	}
}
