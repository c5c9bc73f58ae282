package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/config"
	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/generate"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/server/httpserver"
)

// GenerateCmd implements the 'generate' command for CI/CD pipelines.
type GenerateCmd struct {
	Output   string `short:"o" help:"Output directory (overrides generate.output_dir)"`
	Schedule string `name:"schedule" help:"Cron expression; keep running and regenerate on schedule"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	outDir := c.Output
	if outDir == "" {
		outDir = rt.cfg.Generate.OutputDir
	}
	schedule := c.Schedule
	if schedule == "" {
		schedule = rt.cfg.Generate.Schedule
	}

	gen := &generate.Generator{
		Feed:        httpserver.FeedBuilder(rt.cfg, rt.logger, rt.recorder),
		Sitemap:     httpserver.SitemapBuilder(rt.cfg, rt.logger, rt.recorder),
		Images:      rt.renderer(),
		Concurrency: rt.cfg.Generate.Concurrency,
		Logger:      rt.logger,
		Recorder:    rt.recorder,
	}
	task := func(ctx context.Context) error {
		repo, err := rt.loader().Load()
		if err != nil {
			return err
		}
		report, err := gen.Run(ctx, repo, outDir)
		if err != nil {
			return err
		}
		fmt.Printf("Generated %d files in %s (%s)\n", len(report.Files), outDir, report.Duration.Round(time.Millisecond))
		for _, id := range report.Skipped {
			fmt.Printf("Skipped unsafe id %q\n", id)
		}
		return nil
	}

	if schedule == "" {
		return task(context.Background())
	}
	if err := config.ValidateSchedule(schedule); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid generation schedule").
			WithContext("field", "--schedule").
			Build()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	sched, err := generate.NewScheduler(schedule, rt.logger)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "scheduler startup failed").Build()
	}
	rt.logger.Info("Scheduled generation enabled", logfields.Schedule(schedule), logfields.Path(outDir))
	return sched.Run(ctx, task)
}
