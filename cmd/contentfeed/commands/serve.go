package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/server/handlers"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port int `name:"port" help:"Listen port (overrides http.port)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	if err := applyPort(rt, s.Port); err != nil {
		return err
	}
	repo, err := rt.loader().Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := httpserver.New(rt.cfg, httpserver.Options{
		Snapshot: handlers.StaticSnapshot{Repo: repo},
		Images:   rt.renderer(),
		Markdown: newMarkdown(),
		Registry: rt.registry,
		Recorder: rt.recorder,
		Logger:   rt.logger,
	})
	if err != nil {
		return err
	}
	return rt.serve(ctx, srv)
}

func applyPort(rt *runtime, port int) error {
	switch {
	case port == 0:
		return nil
	case port < 1 || port > 65535:
		return ferrors.ValidationError(fmt.Sprintf("port out of range: %d", port)).
			WithContext("field", "--port").
			Build()
	}
	rt.cfg.HTTP.Port = port
	return nil
}
