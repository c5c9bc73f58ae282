package errors

import (
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: http.StatusOK},
		{name: "validation", err: ValidationError("bad").Build(), expected: http.StatusBadRequest},
		{name: "config", err: ConfigError("bad").Build(), expected: http.StatusBadRequest},
		{name: "not found", err: NotFoundError("team", "bob").Build(), expected: http.StatusNotFound},
		{name: "malformed date", err: MalformedDateError("??").Build(), expected: http.StatusUnprocessableEntity},
		{name: "source unavailable", err: SourceUnavailableError("blog", stdErrors.New("eof")).Build(), expected: http.StatusServiceUnavailable},
		{name: "render", err: RenderError("png encode").Build(), expected: http.StatusInternalServerError},
		{name: "unclassified", err: stdErrors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.StatusCodeFor(tt.err))
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	req := httptest.NewRequest(http.MethodGet, "/blog/unknown", nil)
	rec := httptest.NewRecorder()

	adapter.WriteErrorResponse(rec, req, NotFoundError("blog", "unknown").Build())

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "blog not found", body.Error)
	assert.Equal(t, "not_found", body.Code)
	assert.Equal(t, "unknown", body.Details["id"])
}

func TestHTTPErrorAdapter_FormatUnclassified(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	resp := adapter.FormatErrorResponse(stdErrors.New("plain failure"))
	assert.Equal(t, "plain failure", resp.Error)
	assert.Empty(t, resp.Code)
}
