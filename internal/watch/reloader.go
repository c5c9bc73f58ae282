package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
)

// DefaultDebounce coalesces bursts of file events, e.g. editor save sequences.
const DefaultDebounce = 300 * time.Millisecond

// LoadFunc builds a fresh snapshot.
type LoadFunc func() (*content.Repository, error)

// Options configures a Reloader.
type Options struct {
	Dir      string   // Directory to watch
	Files    []string // Base names that trigger a reload; empty means every file
	Load     LoadFunc
	Debounce time.Duration
	Logger   *slog.Logger
	Recorder metrics.Recorder

	// OnSwap is called after a new snapshot became current.
	OnSwap func(repo *content.Repository, generation uint64)
}

// Reloader owns the current snapshot. Readers call Current and never observe
// a partially built repository; a failed reload keeps the previous snapshot.
type Reloader struct {
	opts    Options
	files   map[string]struct{}
	logger  *slog.Logger
	rec     metrics.Recorder
	watcher *fsnotify.Watcher

	current    atomic.Pointer[content.Repository]
	generation atomic.Uint64
	reloadMu   sync.Mutex

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewReloader performs the initial load. It fails when that load fails.
func NewReloader(opts Options) (*Reloader, error) {
	if opts.Load == nil {
		return nil, fmt.Errorf("reloader requires a load function")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	r := &Reloader{
		opts:     opts,
		files:    map[string]struct{}{},
		logger:   opts.Logger,
		rec:      metrics.OrNoop(opts.Recorder),
		stopChan: make(chan struct{}),
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	for _, f := range opts.Files {
		r.files[f] = struct{}{}
	}

	repo, err := opts.Load()
	if err != nil {
		return nil, err
	}
	r.swap(repo)
	return r, nil
}

// Current returns the snapshot to serve from.
func (r *Reloader) Current() *content.Repository { return r.current.Load() }

// Generation counts successful loads, starting at 1.
func (r *Reloader) Generation() uint64 { return r.generation.Load() }

// Hash identifies the current generation for live reload clients.
func (r *Reloader) Hash() string { return GenerationHash(r.Generation()) }

// GenerationHash is the live reload hash of a snapshot generation.
func GenerationHash(gen uint64) string { return strconv.FormatUint(gen, 16) }

// Start watches the data directory until ctx is done or Stop is called.
func (r *Reloader) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	dir, err := filepath.Abs(r.opts.Dir)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to resolve data path: %w", err)
	}
	// Watch the directory rather than the files so atomic renames are seen.
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch data directory %s: %w", dir, err)
	}
	r.watcher = w
	r.logger.Info("Watching data directory", logfields.Path(dir))

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.loop(ctx)
	}()
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (r *Reloader) Stop() error {
	var err error
	r.stopOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
		if r.watcher != nil {
			err = r.watcher.Close()
		}
	})
	return err
}

func (r *Reloader) loop(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !r.relevant(ev) {
				continue
			}
			r.logger.Debug("Data change detected", logfields.File(ev.Name), slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(r.opts.Debounce)
			} else {
				timer.Reset(r.opts.Debounce)
			}
			fire = timer.C
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error("Data watcher error", logfields.Error(err))
		case <-fire:
			fire = nil
			_ = r.Reload()
		}
	}
}

func (r *Reloader) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	if len(r.files) == 0 {
		return true
	}
	_, ok := r.files[filepath.Base(ev.Name)]
	return ok
}

// Reload loads a new snapshot and makes it current. On failure the previous
// snapshot stays in place and the error is returned.
func (r *Reloader) Reload() error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	start := time.Now()
	repo, err := r.opts.Load()
	if err != nil {
		r.rec.IncReload(metrics.ReloadFailed)
		r.logger.Error("Data reload failed, keeping previous snapshot",
			logfields.Generation(r.Generation()), logfields.Error(err))
		return err
	}
	gen := r.swap(repo)
	r.rec.IncReload(metrics.ReloadSuccess)
	r.logger.Info("Data reloaded",
		logfields.Generation(gen),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	if r.opts.OnSwap != nil {
		r.opts.OnSwap(repo, gen)
	}
	return nil
}

func (r *Reloader) swap(repo *content.Repository) uint64 {
	r.current.Store(repo)
	for store, n := range repo.Counts() {
		r.rec.SetStoreRecords(store, n)
	}
	return r.generation.Add(1)
}
