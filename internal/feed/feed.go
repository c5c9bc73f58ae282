// Package feed builds the RSS 2.0 document syndicating the blog store.
package feed

import (
	"bytes"
	"encoding/xml"
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
)

// DateFormat is the RFC 822 / HTTP-date form used for pubDate and lastBuildDate.
const DateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

const (
	atomNS          = "http://www.w3.org/2005/Atom"
	descriptionSize = 2 // paragraphs taken into an item description
)

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	AtomNS  string   `xml:"xmlns:atom,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string   `xml:"title"`
	Description   string   `xml:"description"`
	Link          string   `xml:"link"`
	Language      string   `xml:"language"`
	LastBuildDate string   `xml:"lastBuildDate"`
	Self          atomLink `xml:"atom:link"`
	Items         []item   `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type item struct {
	Title       cdata  `xml:"title"`
	Description cdata  `xml:"description"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate,omitempty"`
	Author      string `xml:"author"`
	Category    string `xml:"category"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

// Builder renders the blog feed. The zero value of every optional field is usable.
type Builder struct {
	BaseURL     string // Absolute origin without trailing slash
	Title       string
	Description string
	Language    string
	Now         func() time.Time
	Logger      *slog.Logger
	Recorder    metrics.Recorder
}

// Build renders one item per post in store order. Posts are never re-sorted.
// A post whose date cannot be parsed gets no <pubDate> element.
func (b Builder) Build(posts *content.Store[content.BlogPost]) ([]byte, error) {
	start := time.Now()
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rec := metrics.OrNoop(b.Recorder)

	doc := rss{
		Version: "2.0",
		AtomNS:  atomNS,
		Channel: channel{
			Title:         b.Title,
			Description:   b.Description,
			Link:          b.BaseURL + "/blog",
			Language:      b.Language,
			LastBuildDate: now().UTC().Format(DateFormat),
			Self: atomLink{
				Href: b.BaseURL + "/blog/rss",
				Rel:  "self",
				Type: "application/rss+xml",
			},
		},
	}

	for _, p := range posts.All() {
		link := b.BaseURL + "/blog/" + p.ID
		it := item{
			Title:       cdata{p.Title},
			Description: cdata{Summary(p)},
			Link:        link,
			GUID:        link,
			Author:      p.Author,
			Category:    p.Category,
		}
		if t, err := content.ParseDate(p.Date); err == nil {
			it.PubDate = t.Format(DateFormat)
		} else {
			rec.IncMalformedDate(content.StoreBlog)
			logger.Warn("Omitting pubDate for unparsable date",
				logfields.EntityID(p.ID),
				logfields.Value(p.Date))
		}
		doc.Channel.Items = append(doc.Channel.Items, it)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to encode feed").Build()
	}
	buf.WriteByte('\n')
	rec.ObserveRenderDuration("feed", time.Since(start))
	return buf.Bytes(), nil
}

// Summary joins the first two paragraphs with a space and always appends "...".
func Summary(p content.BlogPost) string {
	n := min(len(p.Content), descriptionSize)
	return strings.Join(p.Content[:n], " ") + "..."
}
