// Package refresh keeps the stored draw history in step with the history
// file: on a cron schedule, when the file changes on disk, or both.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"lottolab/app"
	"lottolab/domain/core"
	"lottolab/internal"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// Importer loads a history file into the store
type Importer interface {
	ImportFile(ctx context.Context, path string) (*app.IngestResult, error)
}

// Analyzer produces a fairness report; used to warm the report cache
type Analyzer interface {
	Analyze(ctx context.Context, req app.AnalysisRequest) (*app.FairnessReport, error)
}

// Refresher re-imports one history file. Runs are serialized.
type Refresher struct {
	path     string
	importer Importer
	analyzer Analyzer
	warm     app.AnalysisRequest
	logger   *internal.Logger

	mu   sync.Mutex
	runs int
}

// New creates a refresher for path. analyzer may be nil, in which case
// nothing is precomputed after an import.
func New(path string, importer Importer, analyzer Analyzer, warm app.AnalysisRequest) *Refresher {
	return &Refresher{
		path:     filepath.Clean(path),
		importer: importer,
		analyzer: analyzer,
		warm:     warm,
		logger:   internal.DefaultLogger.WithComponent("Refresh"),
	}
}

// Runs reports how many imports have completed
func (r *Refresher) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// RunOnce imports the history file and, if new draws arrived, recomputes
// the default fairness report so the next reader hits the cache.
func (r *Refresher) RunOnce(ctx context.Context) (*app.IngestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	result, err := r.importer.ImportFile(ctx, r.path)
	if err != nil {
		r.logger.Warn("refresh of %s failed: %v", r.path, err)
		return nil, err
	}
	r.runs++
	r.logger.Info("refreshed %s: %d received, %d inserted, %d rejected in %s",
		r.path, result.Received, result.Inserted, len(result.Rejected), time.Since(start).Round(time.Millisecond))

	if result.Inserted > 0 && r.analyzer != nil {
		if _, err := r.analyzer.Analyze(ctx, r.warm); err != nil && !errors.Is(err, core.ErrInsufficientData) {
			r.logger.Warn("cache warm-up failed: %v", err)
		}
	}
	return result, nil
}

// Schedule runs RunOnce on a standard five-field cron expression until ctx
// is cancelled. It waits for a running import to finish before returning.
func (r *Refresher) Schedule(ctx context.Context, expr string) error {
	c := cron.New()
	if _, err := c.AddFunc(expr, func() {
		_, _ = r.RunOnce(ctx)
	}); err != nil {
		return core.NewInvalidArgumentError("invalid refresh schedule %q: %v", expr, err)
	}

	r.logger.Info("refresh scheduled (cron: %s)", expr)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// Watch re-imports the history file after it changes, once writes have been
// quiet for the debounce interval. The parent directory is watched so
// editors that replace the file by rename are still noticed.
func (r *Refresher) Watch(ctx context.Context, debounce time.Duration) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.path, err)
	}
	r.logger.Info("watching %s (debounce %s)", r.path, debounce)

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
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			_, _ = r.RunOnce(ctx)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("file watcher error: %v", werr)
		}
	}
}
