package generate

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/feed"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/ogimage"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/sitemap"
)

var fixedNow = func() time.Time { return time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC) }

func newTestGenerator() *Generator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Generator{
		Feed:        feed.Builder{BaseURL: "https://sqrtlabs.com", Title: "SQRT Labs Blog", Now: fixedNow, Logger: logger},
		Sitemap:     sitemap.Builder{BaseURL: "https://sqrtlabs.com", Now: fixedNow, Logger: logger},
		Images:      &ogimage.Renderer{Logger: logger},
		Concurrency: 2,
		Logger:      logger,
	}
}

func testRepo() *content.Repository {
	return content.NewRepository(
		[]content.BlogPost{
			{ID: "first", Title: "First", Author: "A", Date: "2024-01-01", Content: []string{"One."}},
			{ID: "second", Title: "Second", Author: "B", Date: "2024-02-01", Content: []string{"Two."}},
		},
		[]content.Project{{ID: "nft", Title: "NFT", Description: "d"}},
		[]content.TeamMember{{ID: "alice", Name: "Alice", Role: "CTO"}, {ID: "../escape", Name: "Eve", Role: "x"}},
	)
}

func TestRunWritesArtifacts(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	report, err := newTestGenerator().Run(context.Background(), testRepo(), out)
	require.NoError(t, err)

	want := []string{
		"blog/first/opengraph-image.png",
		"blog/rss.xml",
		"blog/second/opengraph-image.png",
		"opengraph-image.png",
		"projects/nft/opengraph-image.png",
		"sitemap.xml",
		"team/alice/opengraph-image.png",
		"work/nft/opengraph-image.png",
	}
	assert.Equal(t, want, report.Files)
	assert.Equal(t, []string{"team/../escape"}, report.Skipped)

	for _, rel := range want {
		info, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
		assert.Positive(t, info.Size(), rel)
	}
	_, err = os.Stat(filepath.Join(out, "team", "alice", ImageName+".tmp"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	raw, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	var set struct {
		URLs []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(raw, &set))
	assert.Len(t, set.URLs, 3)
}

func TestRunSkipsUnavailableStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blog-posts.json"), []byte(`{"solo":{"title":"Solo","category":"c","date":"2024-01-01","author":"a","content":["x"]}}`), 0o600))
	repo, err := (&content.Loader{FS: os.DirFS(dir), Files: content.DefaultFiles, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}).Load()
	require.NoError(t, err)

	report, err := newTestGenerator().Run(context.Background(), repo, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/rss.xml", "blog/solo/opengraph-image.png", "opengraph-image.png", "sitemap.xml"}, report.Files)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestGenerator().Run(ctx, testRepo(), t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunOutputNotWritable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err := newTestGenerator().Run(context.Background(), testRepo(), filepath.Join(file, "out"))
	require.Error(t, err)
}

func TestSafeSegment(t *testing.T) {
	assert.True(t, safeSegment("zk-rollups-explained"))
	for _, id := range []string{"", "..", "a/b", `a\b`, "/abs"} {
		assert.False(t, safeSegment(id), id)
	}
}

func TestSchedulerRunsImmediately(t *testing.T) {
	s, err := NewScheduler("0 3 * * *", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err = s.Run(ctx, func(context.Context) error {
		calls++
		cancel()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSchedulerRejectsExpression(t *testing.T) {
	s, err := NewScheduler("whenever", nil)
	require.NoError(t, err)
	err = s.Run(context.Background(), func(context.Context) error { return nil })
	require.Error(t, err)
}
