package content

import (
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
)

func TestLoaderFixtures(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	l := &Loader{FS: os.DirFS("testdata"), Files: DefaultFiles, Now: func() time.Time { return fixed }}

	repo, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"zk-rollups-explained", "account-abstraction", "audit-checklist"}, repo.Blog.IDs())
	assert.Equal(t, []string{"nft-marketplace", "defi-dashboard", "dao-tooling"}, repo.Projects.IDs())
	assert.Equal(t, []string{"alice", "bob"}, repo.Team.IDs())
	assert.Equal(t, fixed, repo.LoadedAt)

	post, ok := repo.Blog.Resolve("zk-rollups-explained")
	require.True(t, ok)
	assert.Equal(t, "zk-rollups-explained", post.ID)
	assert.Len(t, post.Content, 3)

	p, ok := repo.Projects.Resolve("nft-marketplace")
	require.True(t, ok)
	assert.Equal(t, Text("128"), p.Likes)
	assert.True(t, p.Featured)
	d, _ := repo.Projects.Resolve("defi-dashboard")
	assert.Equal(t, "3", d.Team.String())

	for _, store := range []string{StoreBlog, StoreProjects, StoreTeam} {
		assert.NoError(t, repo.Unavailable(store))
	}
	assert.Equal(t, map[string][]string{"alice": {"Internal Indexer"}}, repo.UnresolvedProjectRefs())
}

func TestLoaderMissingSourceIsUnavailable(t *testing.T) {
	fsys := fstest.MapFS{
		"blog-posts.json": {Data: []byte(`{"a":{"title":"T","category":"C","date":"2024-01-01","author":"X","content":["p"]}}`)},
		"team.json":       {Data: []byte(`[`)},
	}
	repo, err := (&Loader{FS: fsys, Files: DefaultFiles}).Load()
	require.NoError(t, err)

	assert.Equal(t, 1, repo.Blog.Len())
	assert.Equal(t, 0, repo.Projects.Len())
	assert.Equal(t, 0, repo.Team.Len())

	perr := repo.Unavailable(StoreProjects)
	require.Error(t, perr)
	assert.True(t, ferrors.HasCategory(perr, ferrors.CategorySourceUnavailable))
	assert.True(t, ferrors.HasCategory(repo.Unavailable(StoreTeam), ferrors.CategorySourceUnavailable))

	_, err = repo.IDs(StoreProjects)
	require.Error(t, err)
	ids, err := repo.IDs(StoreBlog)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
}

func TestLoaderRejectsWrongShape(t *testing.T) {
	fsys := fstest.MapFS{
		"blog-posts.json": {Data: []byte(`[]`)},
		"projects.json":   {Data: []byte(`{"p":{"title":"T","description":"D"}}`)},
		"team.json":       {Data: []byte(`{}`)},
	}
	repo, err := (&Loader{FS: fsys, Files: DefaultFiles}).Load()
	require.NoError(t, err)
	assert.Error(t, repo.Unavailable(StoreBlog))
	assert.Error(t, repo.Unavailable(StoreTeam))
	assert.Equal(t, 1, repo.Projects.Len())
}

func TestLoaderFailsFastOnMissingField(t *testing.T) {
	tests := []struct {
		name  string
		fsys  fstest.MapFS
		store string
		id    string
		field string
	}{
		{
			name: "blog without author",
			fsys: fstest.MapFS{
				"blog-posts.json": {Data: []byte(`{"p1":{"title":"T","category":"C","date":"2024-01-01","content":["x"]}}`)},
			},
			store: StoreBlog, id: "p1", field: "author",
		},
		{
			name: "blog without paragraphs",
			fsys: fstest.MapFS{
				"blog-posts.json": {Data: []byte(`{"p1":{"title":"T","category":"C","date":"2024-01-01","author":"A","content":[]}}`)},
			},
			store: StoreBlog, id: "p1", field: "content",
		},
		{
			name: "project without title",
			fsys: fstest.MapFS{
				"projects.json": {Data: []byte(`{"x":{"description":"D"}}`)},
			},
			store: StoreProjects, id: "x", field: "title",
		},
		{
			name: "team member without id",
			fsys: fstest.MapFS{
				"team.json": {Data: []byte(`[{"name":"N","role":"R"}]`)},
			},
			store: StoreTeam, id: "#0", field: "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Loader{FS: tt.fsys, Files: DefaultFiles}).Load()
			require.Error(t, err)
			c, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, ferrors.CategoryValidation, c.Category())
			store, _ := c.Context().GetString("store")
			id, _ := c.Context().GetString("id")
			field, _ := c.Context().GetString("field")
			assert.Equal(t, tt.store, store)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestNewRepository(t *testing.T) {
	repo := NewRepository(samplePosts(), nil, []TeamMember{{ID: "t"}})
	assert.Equal(t, map[string]int{StoreBlog: 3, StoreProjects: 0, StoreTeam: 1}, repo.Counts())
	ids, err := repo.IDs(StoreTeam)
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, ids)
}
