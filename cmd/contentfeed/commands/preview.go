package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/server/httpserver"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/watch"
)

// PreviewCmd serves like 'serve' but reloads the data directory on change.
type PreviewCmd struct {
	Port         int  `name:"port" help:"Listen port (overrides http.port)"`
	NoLiveReload bool `name:"no-live-reload" help:"Disable LiveReload SSE and script injection."`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	if err := applyPort(rt, p.Port); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var hub *watch.LiveReloadHub
	reloader, err := watch.NewReloader(watch.Options{
		Dir:      rt.cfg.Data.Dir,
		Files:    rt.dataFiles(),
		Load:     rt.loader().Load,
		Debounce: rt.cfg.Preview.Debounce,
		Logger:   rt.logger,
		Recorder: rt.recorder,
		OnSwap: func(_ *content.Repository, gen uint64) {
			if hub != nil {
				hub.Broadcast(watch.GenerationHash(gen))
			}
		},
	})
	if err != nil {
		return err
	}

	opts := httpserver.Options{
		Snapshot: reloader,
		Images:   rt.renderer(),
		Markdown: newMarkdown(),
		Registry: rt.registry,
		Recorder: rt.recorder,
		Logger:   rt.logger,
	}
	if rt.cfg.Preview.LiveReload && !p.NoLiveReload {
		hub = watch.NewLiveReloadHub(reloader.Hash(), rt.logger)
		opts.LiveReloadHub = hub
	}

	srv, err := httpserver.New(rt.cfg, opts)
	if err != nil {
		return err
	}
	if err := reloader.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := reloader.Stop(); err != nil {
			rt.logger.Warn("Failed to stop data watcher", logfields.Error(err))
		}
	}()
	return rt.serve(ctx, srv)
}
