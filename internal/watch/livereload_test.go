package watch

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			return strings.Join(lines, "\n")
		}
		lines = append(lines, line)
	}
}

func TestLiveReloadHubStream(t *testing.T) {
	hub := NewLiveReloadHub("abc", nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	body := bufio.NewReader(resp.Body)
	assert.Equal(t, ": connected", readEvent(t, body))
	assert.Equal(t, `data: {"hash":"abc"}`, readEvent(t, body))
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast("abc") // unchanged, not sent
	hub.Broadcast("def")
	assert.Equal(t, `data: {"hash":"def"}`, readEvent(t, body))

	cancel()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLiveReloadHubShutdown(t *testing.T) {
	hub := NewLiveReloadHub("", nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	body := bufio.NewReader(resp.Body)
	assert.Equal(t, ": connected", readEvent(t, body))

	hub.Shutdown()
	hub.Shutdown()
	_, err = body.ReadString('\n')
	assert.Error(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 0, hub.Clients())

	resp, err = http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	hub.Broadcast("late")
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.Empty(t, hub.lastHash)
}
