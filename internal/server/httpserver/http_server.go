// Package httpserver wires the contentfeed routes, middleware and listener.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/config"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/feed"
	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/ogimage"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/server/handlers"
	smw "git.home.luguber.info/sqrtlabs/contentfeed/internal/server/middleware"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/server/views"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/sitemap"
)

// LiveReloadScript is served at /livereload.js in preview mode.
const LiveReloadScript = `(() => {
  if (window.__CONTENTFEED_LR__) return;
  window.__CONTENTFEED_LR__ = true;
  function connect() {
    const es = new EventSource('/livereload');
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.hash; return; }
        if (p.hash && p.hash !== current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();`

// Server serves every contentfeed endpoint from one listener.
type Server struct {
	cfg          *config.Config
	opts         Options
	logger       *slog.Logger
	errorAdapter *ferrors.HTTPErrorAdapter
	router       chi.Router
	httpServer   *http.Server
	addr         net.Addr

	// Handler modules
	artifactHandlers   *handlers.ArtifactHandlers
	pageHandlers       *handlers.PageHandlers
	monitoringHandlers *handlers.MonitoringHandlers
}

// New constructs the server and its routes. It does not bind a port.
func New(cfg *config.Config, opts Options) (*Server, error) {
	if opts.Snapshot == nil {
		return nil, ferrors.InternalError("server requires a content snapshot").Build()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rec := metrics.OrNoop(opts.Recorder)

	v, err := views.New(opts.Markdown)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to parse page templates").Build()
	}

	s := &Server{
		cfg:          cfg,
		opts:         opts,
		logger:       logger,
		errorAdapter: ferrors.NewHTTPErrorAdapter(logger),
	}

	images := opts.Images
	if images == nil {
		images = &ogimage.Renderer{Logger: logger, Recorder: rec}
	}
	s.artifactHandlers = handlers.NewArtifactHandlers(opts.Snapshot, s.errorAdapter, handlers.ArtifactOptions{
		Feed:     FeedBuilder(cfg, logger, rec),
		Sitemap:  SitemapBuilder(cfg, logger, rec),
		Images:   images,
		Recorder: rec,
		Logger:   logger,
	})
	s.pageHandlers = handlers.NewPageHandlers(opts.Snapshot, v, s.errorAdapter, handlers.PageOptions{
		SiteTitle:  cfg.Site.Title,
		BaseURL:    cfg.Site.BaseURL,
		PageSize:   cfg.Pagination.BlogPageSize,
		LiveReload: opts.LiveReloadHub != nil,
		Recorder:   rec,
		Logger:     logger,
	})
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Snapshot, s.errorAdapter)

	s.router = s.routes(rec)
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}
	if opts.LiveReloadHub != nil {
		// SSE streams outlive any write deadline.
		s.httpServer.WriteTimeout = 0
	}
	return s, nil
}

// FeedBuilder maps the site and feed configuration onto a builder.
func FeedBuilder(cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) feed.Builder {
	return feed.Builder{
		BaseURL:     cfg.Site.BaseURL,
		Title:       cfg.Feed.Title,
		Description: cfg.Feed.Description,
		Language:    cfg.Site.Language,
		Logger:      logger,
		Recorder:    rec,
	}
}

// SitemapBuilder maps the sitemap configuration onto a builder.
func SitemapBuilder(cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) sitemap.Builder {
	routes := make([]sitemap.Route, 0, len(cfg.Sitemap.StaticRoutes))
	for _, r := range cfg.Sitemap.StaticRoutes {
		routes = append(routes, sitemap.Route{Path: r.Path, ChangeFreq: string(r.ChangeFreq), Priority: r.Priority})
	}
	return sitemap.Builder{
		BaseURL:      cfg.Site.BaseURL,
		StaticRoutes: routes,
		ChangeFreq:   string(cfg.Sitemap.DynamicChangeFreq),
		Priority:     cfg.Sitemap.DynamicPriority,
		Logger:       logger,
		Recorder:     rec,
	}
}

func (s *Server) routes(rec metrics.Recorder) chi.Router {
	r := chi.NewRouter()
	r.Use(smw.Chain(s.logger, s.errorAdapter, rec))

	a, p := s.artifactHandlers, s.pageHandlers
	r.Get("/blog/rss", a.HandleFeed)
	r.Get("/sitemap.xml", a.HandleSitemap)
	r.Get("/opengraph-image", a.HandleSiteImage)
	for _, kind := range ogimage.EntityKinds {
		r.Get("/"+string(kind)+"/{id}/opengraph-image", a.EntityImage(kind))
	}

	r.Get("/blog", p.HandleBlogList)
	r.Get("/blog/{id}", p.HandleBlogPost)
	r.Get("/projects", p.HandleProjectList)
	r.Get("/projects/{id}", p.HandleProject)
	r.Get("/work", p.HandleWorkList)
	r.Get("/work/{id}", p.HandleWork)
	r.Get("/team", p.HandleTeamList)
	r.Get("/team/{id}", p.HandleTeamMember)

	r.Get("/health", s.monitoringHandlers.HandleHealthCheck)
	if m := s.cfg.Monitoring.Metrics; m.Enabled && s.opts.Registry != nil {
		r.Handle(m.Path, metrics.HTTPHandler(s.opts.Registry))
	}
	if hub := s.opts.LiveReloadHub; hub != nil {
		r.Handle("/livereload", hub)
		r.Get("/livereload.js", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
			_, _ = w.Write([]byte(LiveReloadScript))
		})
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		s.errorAdapter.WriteErrorResponse(w, req, ferrors.NewError(ferrors.CategoryNotFound, "no such route").
			Info().
			WithContext("path", req.URL.Path).
			Build())
	})
	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the bound address once Start returned.
func (s *Server) Addr() net.Addr { return s.addr }

// Start binds the configured port and serves in the background. The port is
// bound before returning so conflicts fail fast.
func (s *Server) Start(ctx context.Context) error {
	return s.StartAt(ctx, fmt.Sprintf(":%d", s.cfg.HTTP.Port))
}

// StartAt is Start on an explicit address, e.g. "127.0.0.1:0".
func (s *Server) StartAt(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "http startup failed").
			WithContext("addr", addr).
			Build()
	}
	s.addr = ln.Addr()
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", logfields.Error(err))
		}
	}()
	s.logger.Info("HTTP server started", slog.String("addr", s.addr.String()))
	return nil
}

// Stop gracefully shuts down the server and closes live reload streams.
func (s *Server) Stop(ctx context.Context) error {
	if s.opts.LiveReloadHub != nil {
		s.opts.LiveReloadHub.Shutdown()
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
