package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/feed"
	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/ogimage"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/sitemap"
)

// Content types of the artifact endpoints.
const (
	ContentTypeXML = "application/xml"
	ContentTypePNG = "image/png"
)

// ArtifactHandlers serves the feed, the sitemap and preview images.
type ArtifactHandlers struct {
	snapshot     Snapshot
	feed         feed.Builder
	sitemap      sitemap.Builder
	images       *ogimage.Renderer
	errorAdapter *ferrors.HTTPErrorAdapter
	recorder     metrics.Recorder
	logger       *slog.Logger
}

// ArtifactOptions wires the artifact builders.
type ArtifactOptions struct {
	Feed     feed.Builder
	Sitemap  sitemap.Builder
	Images   *ogimage.Renderer
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// NewArtifactHandlers creates artifact handlers reading from snapshot.
func NewArtifactHandlers(snapshot Snapshot, adapter *ferrors.HTTPErrorAdapter, opts ArtifactOptions) *ArtifactHandlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	images := opts.Images
	if images == nil {
		images = &ogimage.Renderer{Logger: logger, Recorder: opts.Recorder}
	}
	return &ArtifactHandlers{
		snapshot:     snapshot,
		feed:         opts.Feed,
		sitemap:      opts.Sitemap,
		images:       images,
		errorAdapter: adapter,
		recorder:     metrics.OrNoop(opts.Recorder),
		logger:       logger,
	}
}

// HandleFeed serves GET /blog/rss.
func (h *ArtifactHandlers) HandleFeed(w http.ResponseWriter, r *http.Request) {
	body, err := h.feed.Build(h.snapshot.Current().Blog)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	writeBody(w, http.StatusOK, ContentTypeXML, body)
}

// HandleSitemap serves GET /sitemap.xml.
func (h *ArtifactHandlers) HandleSitemap(w http.ResponseWriter, r *http.Request) {
	body, err := h.sitemap.Build(sitemap.RepositorySources(h.snapshot.Current())...)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	writeBody(w, http.StatusOK, ContentTypeXML, body)
}

// HandleSiteImage serves GET /opengraph-image.
func (h *ArtifactHandlers) HandleSiteImage(w http.ResponseWriter, r *http.Request) {
	h.writeImage(w, r, ogimage.SiteCard())
}

// EntityImage returns the handler of GET /{kind}/{id}/opengraph-image. It
// answers 200 with the fallback card when the id does not resolve.
func (h *ArtifactHandlers) EntityImage(kind ogimage.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		card, found := ogimage.CardFor(h.snapshot.Current(), kind, id)
		if !found {
			h.recorder.IncNotFound(string(kind))
			h.logger.Debug("Preview image for unknown entity",
				logfields.EntityKind(string(kind)), logfields.EntityID(id))
		}
		h.writeImage(w, r, card)
	}
}

func (h *ArtifactHandlers) writeImage(w http.ResponseWriter, r *http.Request, card ogimage.Card) {
	png, err := h.images.Render(card)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeBody(w, http.StatusOK, ContentTypePNG, png)
}
