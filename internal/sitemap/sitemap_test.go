package sitemap

import (
	"encoding/xml"
	"errors"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
)

var fixedNow = time.Date(2025, 6, 1, 12, 30, 0, 250_000_000, time.UTC)

var staticRoutes = []Route{
	{Path: "/", ChangeFreq: "weekly", Priority: 1.0},
	{Path: "/about", ChangeFreq: "monthly", Priority: 0.8},
	{Path: "/projects", ChangeFreq: "weekly", Priority: 0.9},
	{Path: "/blog", ChangeFreq: "weekly", Priority: 0.8},
}

type parsed struct {
	XMLName xml.Name `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []struct {
		Loc        string `xml:"loc"`
		LastMod    string `xml:"lastmod"`
		ChangeFreq string `xml:"changefreq"`
		Priority   string `xml:"priority"`
	} `xml:"url"`
}

func newBuilder() Builder {
	return Builder{
		BaseURL:      "https://sqrtlabs.com",
		StaticRoutes: staticRoutes,
		Now:          func() time.Time { return fixedNow },
	}
}

func fixtureRepo(t *testing.T) *content.Repository {
	t.Helper()
	repo, err := (&content.Loader{FS: os.DirFS("../content/testdata"), Files: content.DefaultFiles}).Load()
	require.NoError(t, err)
	return repo
}

func TestBuildSitemap(t *testing.T) {
	repo := fixtureRepo(t)
	out, err := newBuilder().Build(RepositorySources(repo)...)
	require.NoError(t, err)

	var doc parsed
	require.NoError(t, xml.Unmarshal(out, &doc))
	require.Len(t, doc.URLs, len(staticRoutes)+repo.Blog.Len()+repo.Projects.Len())

	assert.Equal(t, "https://sqrtlabs.com/", doc.URLs[0].Loc)
	assert.Equal(t, "1", doc.URLs[0].Priority)
	assert.Equal(t, "weekly", doc.URLs[0].ChangeFreq)
	assert.Equal(t, "0.9", doc.URLs[2].Priority)

	var locs []string
	for _, u := range doc.URLs {
		assert.Equal(t, "2025-06-01T12:30:00.250Z", u.LastMod)
		locs = append(locs, u.Loc)
	}
	assert.Equal(t, []string{
		"https://sqrtlabs.com/",
		"https://sqrtlabs.com/about",
		"https://sqrtlabs.com/projects",
		"https://sqrtlabs.com/blog",
		"https://sqrtlabs.com/blog/zk-rollups-explained",
		"https://sqrtlabs.com/blog/account-abstraction",
		"https://sqrtlabs.com/blog/audit-checklist",
		"https://sqrtlabs.com/projects/nft-marketplace",
		"https://sqrtlabs.com/projects/defi-dashboard",
		"https://sqrtlabs.com/projects/dao-tooling",
	}, locs)

	dynamic := doc.URLs[4]
	assert.Equal(t, "monthly", dynamic.ChangeFreq)
	assert.Equal(t, "0.7", dynamic.Priority)
}

func TestBuildSitemapSkipsFailingSource(t *testing.T) {
	ok := Source{Name: "blog", Prefix: "/blog", IDs: func() ([]string, error) { return []string{"a"}, nil }}
	broken := Source{Name: "projects", Prefix: "/projects", IDs: func() ([]string, error) { return nil, errors.New("boom") }}

	out, err := newBuilder().Build(ok, broken)
	require.NoError(t, err)

	var doc parsed
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Len(t, doc.URLs, len(staticRoutes)+1)
}

func TestBuildSitemapUnavailableStore(t *testing.T) {
	fsys := fstest.MapFS{
		"blog-posts.json": {Data: []byte(`{"a":{"title":"T","category":"C","date":"2024-01-01","author":"X","content":["p"]}}`)},
	}
	repo, err := (&content.Loader{FS: fsys, Files: content.DefaultFiles}).Load()
	require.NoError(t, err)

	out, err := newBuilder().Build(RepositorySources(repo)...)
	require.NoError(t, err)

	var doc parsed
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Len(t, doc.URLs, len(staticRoutes)+1)
}

func TestBuildSitemapNoDeduplication(t *testing.T) {
	b := newBuilder()
	b.StaticRoutes = []Route{{Path: "/blog/about", ChangeFreq: "monthly", Priority: 0.5}}
	src := Source{Name: "blog", Prefix: "/blog", IDs: func() ([]string, error) { return []string{"about", "about"}, nil }}

	out, err := b.Build(src)
	require.NoError(t, err)

	var doc parsed
	require.NoError(t, xml.Unmarshal(out, &doc))
	require.Len(t, doc.URLs, 3)
	for _, u := range doc.URLs {
		assert.Equal(t, "https://sqrtlabs.com/blog/about", u.Loc)
	}
}

func TestBuildSitemapIdempotent(t *testing.T) {
	repo := fixtureRepo(t)
	a, err := newBuilder().Build(RepositorySources(repo)...)
	require.NoError(t, err)
	b, err := newBuilder().Build(RepositorySources(repo)...)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFormatPriority(t *testing.T) {
	assert.Equal(t, "1", formatPriority(1.0))
	assert.Equal(t, "0.8", formatPriority(0.8))
	assert.Equal(t, "0.75", formatPriority(0.75))
	assert.Equal(t, "0", formatPriority(0))
}
