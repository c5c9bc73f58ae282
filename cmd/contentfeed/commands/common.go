package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/config"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/ogimage"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/server/httpserver"
)

// DefaultConfigPath is read when -c is not given. A missing file there is not an error.
const DefaultConfigPath = "contentfeed.yaml"

// Global carries state shared between the root and subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to contentfeed.yaml if present)" placeholder:"PATH"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve    ServeCmd    `cmd:"" help:"Serve the feed, sitemap, pages and preview images"`
	Generate GenerateCmd `cmd:"" help:"Write static artifacts to an output directory"`
	Preview  PreviewCmd  `cmd:"" help:"Serve with data directory watching and live reload"`
	Validate ValidateCmd `cmd:"" help:"Check the data files and report store counts"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply installs a bootstrap logger until the configuration is read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// configPath returns the file to load and whether the user named it.
func (c *CLI) configPath() (string, bool) {
	if c.Config == "" {
		return DefaultConfigPath, false
	}
	return c.Config, true
}

// NewLogger builds the process logger from the logging section; verbose forces debug.
func NewLogger(w io.Writer, logging config.MonitoringLogging, verbose bool) *slog.Logger {
	level := logging.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if logging.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// runtime holds what every data-driven command needs.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prom.Registry
	recorder metrics.Recorder
}

// setup loads the configuration and installs the configured logger and metrics.
func (c *CLI) setup(g *Global) (*runtime, error) {
	path, explicit := c.configPath()
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	logger := NewLogger(os.Stderr, cfg.Monitoring.Logging, c.Verbose)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}

	rt := &runtime{cfg: cfg, logger: logger, recorder: metrics.NoopRecorder{}}
	if cfg.Monitoring.Metrics.Enabled {
		rt.registry = metrics.NewRegistry()
		rt.recorder = metrics.NewPrometheusRecorder(rt.registry)
	}
	logger.Debug("Configuration loaded",
		logfields.File(path),
		logfields.Path(cfg.Data.Dir),
		logfields.URL(cfg.Site.BaseURL))
	return rt, nil
}

func (rt *runtime) loader() *content.Loader {
	return &content.Loader{
		FS: os.DirFS(rt.cfg.Data.Dir),
		Files: content.Files{
			Blog:     rt.cfg.Data.BlogFile,
			Projects: rt.cfg.Data.Projects,
			Team:     rt.cfg.Data.TeamFile,
		},
		Logger:   rt.logger,
		Recorder: rt.recorder,
	}
}

func (rt *runtime) dataFiles() []string {
	return []string{rt.cfg.Data.BlogFile, rt.cfg.Data.Projects, rt.cfg.Data.TeamFile}
}

func (rt *runtime) renderer() *ogimage.Renderer {
	return &ogimage.Renderer{
		Assets:   os.DirFS(rt.cfg.Data.AssetsDir),
		LogoName: rt.cfg.Data.Logo,
		Logger:   rt.logger,
		Recorder: rt.recorder,
	}
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
}

// serve runs srv until ctx is done, then shuts it down within the configured timeout.
func (rt *runtime) serve(ctx context.Context, srv *httpserver.Server) error {
	if err := srv.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	rt.logger.Info("Shutdown signal received, stopping server...")

	stopCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Stop(stopCtx)
}
