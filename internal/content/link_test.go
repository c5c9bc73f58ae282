package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkProjects(t *testing.T) {
	projects := NewStore(StoreProjects, []Project{
		{ID: "nft", Title: "Nebula NFT Marketplace"},
		{ID: "defi", Title: "DeFi Dashboard"},
		{ID: "strasse", Title: "Straße Explorer"},
	})

	links := LinkProjects(projects, []string{
		"nebula nft marketplace",
		"Internal Indexer",
		"DEFI DASHBOARD",
		"STRASSE EXPLORER",
		"DeFi Dashboard ",
	})
	require.Len(t, links, 5)

	assert.Equal(t, Linked, links[0].Kind())
	p, ok := links[0].Project()
	require.True(t, ok)
	assert.Equal(t, "nft", p.ID)
	assert.Equal(t, "Nebula NFT Marketplace", links[0].Name())

	assert.Equal(t, Unlinked, links[1].Kind())
	assert.Equal(t, "Internal Indexer", links[1].Name())
	_, ok = links[1].Project()
	assert.False(t, ok)

	assert.Equal(t, Linked, links[2].Kind())

	// Full case folding maps ß to ss.
	assert.Equal(t, Linked, links[3].Kind())

	// Matching is exact apart from case: whitespace is significant.
	assert.Equal(t, Unlinked, links[4].Kind())
}

func TestLinkProjectsEmpty(t *testing.T) {
	assert.Nil(t, LinkProjects(NewStore[Project](StoreProjects, nil), nil))

	links := LinkProjects(NewStore[Project](StoreProjects, nil), []string{"Anything"})
	require.Len(t, links, 1)
	assert.Equal(t, Unlinked, links[0].Kind())
	assert.Equal(t, "unlinked", links[0].Kind().String())
}

func TestLinkProjectsFirstTitleWins(t *testing.T) {
	projects := NewStore(StoreProjects, []Project{
		{ID: "one", Title: "Same"},
		{ID: "two", Title: "same"},
	})
	links := LinkProjects(projects, []string{"SAME"})
	p, ok := links[0].Project()
	require.True(t, ok)
	assert.Equal(t, "one", p.ID)
}
