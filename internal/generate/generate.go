// Package generate writes the feed, sitemap and every preview image of a
// snapshot to a static output directory.
package generate

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/feed"
	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/ogimage"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/sitemap"
)

// Output paths relative to the output directory.
const (
	FeedPath    = "blog/rss.xml"
	SitemapPath = "sitemap.xml"
	ImageName   = "opengraph-image.png"
)

// DefaultConcurrency bounds parallel image rendering when Concurrency is unset.
const DefaultConcurrency = 4

// Generator renders all artifacts of a snapshot.
type Generator struct {
	Feed        feed.Builder
	Sitemap     sitemap.Builder
	Images      *ogimage.Renderer
	Concurrency int
	Logger      *slog.Logger
	Recorder    metrics.Recorder
}

// Report summarizes one run.
type Report struct {
	Files    []string // Written paths relative to the output directory, sorted
	Skipped  []string // Entity ids that could not be mapped to a file path
	Duration time.Duration
}

type imageJob struct {
	kind ogimage.Kind
	id   string
}

func (j imageJob) path() string {
	if j.kind == ogimage.KindSite {
		return ImageName
	}
	return path.Join(string(j.kind), j.id, ImageName)
}

// Run writes every artifact below outDir. Any write or render failure fails the
// run; files already written are left in place.
func (g *Generator) Run(ctx context.Context, repo *content.Repository, outDir string) (Report, error) {
	start := time.Now()
	logger := g.logger()

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return Report{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", outDir).
			Build()
	}

	var (
		mu     sync.Mutex
		report Report
	)
	written := func(rel string) {
		mu.Lock()
		report.Files = append(report.Files, rel)
		mu.Unlock()
	}

	rss, err := g.Feed.Build(repo.Blog)
	if err != nil {
		return report, err
	}
	if err := writeFile(outDir, FeedPath, rss); err != nil {
		return report, err
	}
	written(FeedPath)

	sm, err := g.Sitemap.Build(sitemap.RepositorySources(repo)...)
	if err != nil {
		return report, err
	}
	if err := writeFile(outDir, SitemapPath, sm); err != nil {
		return report, err
	}
	written(SitemapPath)

	jobs, skipped := g.imageJobs(repo, logger)
	report.Skipped = skipped

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency())
	for _, job := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			card := ogimage.SiteCard()
			if job.kind != ogimage.KindSite {
				card, _ = ogimage.CardFor(repo, job.kind, job.id)
			}
			png, err := g.Images.Render(card)
			if err != nil {
				return err
			}
			rel := job.path()
			if err := writeFile(outDir, rel, png); err != nil {
				return err
			}
			written(rel)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return report, err
	}

	slices.Sort(report.Files)
	report.Duration = time.Since(start)
	metrics.OrNoop(g.Recorder).ObserveRenderDuration("generate", report.Duration)
	logger.Info("Artifacts generated",
		logfields.Path(outDir),
		logfields.Count(len(report.Files)),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func (g *Generator) imageJobs(repo *content.Repository, logger *slog.Logger) ([]imageJob, []string) {
	jobs := []imageJob{{kind: ogimage.KindSite}}
	var skipped []string
	for _, kind := range ogimage.EntityKinds {
		ids, err := repo.IDs(kind.Store())
		if err != nil {
			logger.Warn("Skipping preview images for unavailable store",
				logfields.EntityKind(string(kind)), logfields.Store(kind.Store()), logfields.Error(err))
			continue
		}
		for _, id := range ids {
			if !safeSegment(id) {
				logger.Warn("Skipping preview image for id that is not a path segment",
					logfields.EntityKind(string(kind)), logfields.EntityID(id))
				skipped = append(skipped, string(kind)+"/"+id)
				continue
			}
			jobs = append(jobs, imageJob{kind: kind, id: id})
		}
	}
	return jobs, skipped
}

// safeSegment reports whether id can be used as a single directory name.
func safeSegment(id string) bool {
	return id != "" && filepath.IsLocal(id) && !strings.ContainsAny(id, `/\`)
}

func writeFile(outDir, rel string, data []byte) error {
	dst := filepath.Join(outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create artifact directory").
			WithContext("path", rel).
			Build()
	}
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write artifact").
			WithContext("path", rel).
			Build()
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to move artifact into place").
			WithContext("path", rel).
			Build()
	}
	return nil
}

func (g *Generator) concurrency() int {
	if g.Concurrency > 0 {
		return g.Concurrency
	}
	return DefaultConcurrency
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
