package feed

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
)

var fixedNow = time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

func loadPosts(t *testing.T) *content.Store[content.BlogPost] {
	t.Helper()
	repo, err := (&content.Loader{FS: os.DirFS("../content/testdata"), Files: content.DefaultFiles}).Load()
	require.NoError(t, err)
	return repo.Blog
}

func newBuilder() Builder {
	return Builder{
		BaseURL:     "https://sqrtlabs.com",
		Title:       "SQRT Labs Blog",
		Description: "Engineering notes",
		Language:    "en",
		Now:         func() time.Time { return fixedNow },
	}
}

type parsedFeed struct {
	Channel struct {
		Title string `xml:"title"`
		// Declared before Link: an unqualified field also matches atom:link.
		Self struct {
			Href string `xml:"href,attr"`
			Rel  string `xml:"rel,attr"`
		} `xml:"http://www.w3.org/2005/Atom link"`
		Link          string `xml:"link"`
		LastBuildDate string `xml:"lastBuildDate"`
		Items []struct {
			Title       string  `xml:"title"`
			Description string  `xml:"description"`
			Link        string  `xml:"link"`
			GUID        string  `xml:"guid"`
			PubDate     *string `xml:"pubDate"`
			Author      string  `xml:"author"`
			Category    string  `xml:"category"`
		} `xml:"item"`
	} `xml:"channel"`
}

func TestBuildFeed(t *testing.T) {
	posts := loadPosts(t)
	out, err := newBuilder().Build(posts)
	require.NoError(t, err)

	var f parsedFeed
	require.NoError(t, xml.Unmarshal(out, &f))

	assert.Equal(t, "SQRT Labs Blog", f.Channel.Title)
	assert.Equal(t, "https://sqrtlabs.com/blog", f.Channel.Link)
	assert.Equal(t, "Sun, 01 Jun 2025 12:30:00 GMT", f.Channel.LastBuildDate)
	assert.Equal(t, "https://sqrtlabs.com/blog/rss", f.Channel.Self.Href)
	assert.Equal(t, "self", f.Channel.Self.Rel)

	require.Len(t, f.Channel.Items, posts.Len())
	for i, id := range posts.IDs() {
		it := f.Channel.Items[i]
		assert.Equal(t, "https://sqrtlabs.com/blog/"+id, it.Link)
		assert.Equal(t, it.Link, it.GUID)
	}

	first := f.Channel.Items[0]
	assert.Equal(t, "ZK Rollups, Explained <Without> the Math & Jargon", first.Title)
	assert.Equal(t, "Zero-knowledge rollups batch thousands of transactions off-chain. A single validity proof is then posted to L1....", first.Description)
	require.NotNil(t, first.PubDate)
	assert.Equal(t, "Fri, 15 Mar 2024 00:00:00 GMT", *first.PubDate)
	assert.Equal(t, "Alice Moreau", first.Author)
	assert.Equal(t, "Engineering", first.Category)

	second := f.Channel.Items[1]
	assert.Equal(t, "Smart accounts change onboarding....", second.Description)
	require.NotNil(t, second.PubDate)
	assert.Equal(t, "Fri, 02 Feb 2024 00:00:00 GMT", *second.PubDate)

	assert.Nil(t, f.Channel.Items[2].PubDate, "malformed date omits pubDate")
}

func TestBuildFeedUsesCDATA(t *testing.T) {
	out, err := newBuilder().Build(loadPosts(t))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title><![CDATA[ZK Rollups, Explained <Without> the Math & Jargon]]></title>")
	assert.True(t, bytes.HasPrefix(out, []byte(`<?xml version="1.0" encoding="UTF-8"?>`)))
}

func TestBuildFeedWellFormedWithHostileContent(t *testing.T) {
	posts := content.NewStore(content.StoreBlog, []content.BlogPost{{
		ID:       "x",
		Title:    "Ends with ]]> and <tags>",
		Author:   "A & B <ab@example.com>",
		Category: "R&D",
		Date:     "2024-01-01",
		Content:  []string{"]]>", "<script>"},
	}})
	out, err := newBuilder().Build(posts)
	require.NoError(t, err)

	dec := xml.NewDecoder(bytes.NewReader(out))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	var f parsedFeed
	require.NoError(t, xml.Unmarshal(out, &f))
	assert.Equal(t, "Ends with ]]> and <tags>", f.Channel.Items[0].Title)
	assert.Equal(t, "A & B <ab@example.com>", f.Channel.Items[0].Author)
}

func TestBuildFeedIdempotent(t *testing.T) {
	posts := loadPosts(t)
	a, err := newBuilder().Build(posts)
	require.NoError(t, err)
	b, err := newBuilder().Build(posts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildFeedEmptyStore(t *testing.T) {
	out, err := newBuilder().Build(content.NewStore[content.BlogPost](content.StoreBlog, nil))
	require.NoError(t, err)
	var f parsedFeed
	require.NoError(t, xml.Unmarshal(out, &f))
	assert.Empty(t, f.Channel.Items)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "...", Summary(content.BlogPost{}))
	assert.Equal(t, "one...", Summary(content.BlogPost{Content: []string{"one"}}))
	assert.Equal(t, "one two...", Summary(content.BlogPost{Content: []string{"one", "two", "three"}}))
}
