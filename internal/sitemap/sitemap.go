// Package sitemap builds the XML sitemap from a fixed list of static routes
// followed by one entry per record of each dynamic source.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"log/slog"
	"strconv"
	"time"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
)

const (
	xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

	// LastModFormat is ISO 8601 in UTC with millisecond precision.
	LastModFormat = "2006-01-02T15:04:05.000Z"

	DefaultChangeFreq = "monthly"
	DefaultPriority   = 0.7
)

// Route is a static sitemap entry.
type Route struct {
	Path       string
	ChangeFreq string
	Priority   float64
}

// Source yields the ids listed under Prefix. A Source whose IDs returns an
// error contributes nothing.
type Source struct {
	Name   string
	Prefix string
	IDs    func() ([]string, error)
}

// RepositorySources returns the blog and project sources of repo, in that order.
// Team pages are not listed.
func RepositorySources(repo *content.Repository) []Source {
	return []Source{
		{Name: content.StoreBlog, Prefix: "/blog", IDs: func() ([]string, error) { return repo.IDs(content.StoreBlog) }},
		{Name: content.StoreProjects, Prefix: "/projects", IDs: func() ([]string, error) { return repo.IDs(content.StoreProjects) }},
	}
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Builder renders the sitemap.
type Builder struct {
	BaseURL      string
	StaticRoutes []Route
	ChangeFreq   string  // for dynamic entries, defaults to monthly
	Priority     float64 // for dynamic entries, defaults to 0.7
	Now          func() time.Time
	Logger       *slog.Logger
	Recorder     metrics.Recorder
}

// Build renders static routes, then each source's ids in order. Every entry's
// lastmod is the build time. URLs are not deduplicated, and a failing source
// is logged and skipped; Build never fails because of one.
func (b Builder) Build(sources ...Source) ([]byte, error) {
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
	changeFreq := b.ChangeFreq
	if changeFreq == "" {
		changeFreq = DefaultChangeFreq
	}
	priority := b.Priority
	if priority == 0 {
		priority = DefaultPriority
	}
	lastMod := now().UTC().Format(LastModFormat)

	doc := urlset{Xmlns: xmlns}
	for _, r := range b.StaticRoutes {
		doc.URLs = append(doc.URLs, url{
			Loc:        b.BaseURL + r.Path,
			LastMod:    lastMod,
			ChangeFreq: r.ChangeFreq,
			Priority:   formatPriority(r.Priority),
		})
	}

	for _, src := range sources {
		ids, err := src.IDs()
		if err != nil {
			rec.IncSourceUnavailable(src.Name)
			logger.Error("Error reading source for sitemap",
				logfields.Store(src.Name),
				logfields.Error(err))
			continue
		}
		for _, id := range ids {
			doc.URLs = append(doc.URLs, url{
				Loc:        b.BaseURL + src.Prefix + "/" + id,
				LastMod:    lastMod,
				ChangeFreq: changeFreq,
				Priority:   formatPriority(priority),
			})
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to encode sitemap").Build()
	}
	buf.WriteByte('\n')
	rec.ObserveRenderDuration("sitemap", time.Since(start))
	return buf.Bytes(), nil
}

// formatPriority prints the shortest decimal form: 1.0 becomes "1", 0.70 becomes "0.7".
func formatPriority(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
