package dataset

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/nri-explorer/internal/observability"
)

// Snapshot sources reported in metrics and refresh notifications.
const (
	SourceNetwork = "network"
	SourceCache   = "cache"
)

// cacheFilename is the on-disk name of the cached county CSV.
const cacheFilename = "nri_counties.csv"

// RefreshEvent describes a completed dataset load.
type RefreshEvent struct {
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Notifier publishes refresh events after successful loads.
type Notifier interface {
	NotifyRefresh(ctx context.Context, event RefreshEvent) error
}

// Loader orchestrates fetch → parse → store → notify, with an optional
// disk cache and an optional periodic refresh loop.
type Loader struct {
	fetcher  *Fetcher
	store    *Store
	cacheDir string
	interval time.Duration
	notifier Notifier // nil disables notifications
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewLoader creates a Loader. An empty cacheDir disables the disk cache; an
// interval of 0 disables the refresh loop; a nil notifier disables refresh
// notifications.
func NewLoader(fetcher *Fetcher, store *Store, cacheDir string, interval time.Duration, notifier Notifier, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		fetcher:  fetcher,
		store:    store,
		cacheDir: cacheDir,
		interval: interval,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// LoadFromCache attempts to populate the store from the disk cache. It
// reports whether a cached dataset was loaded; a missing cache file is not
// an error.
func (l *Loader) LoadFromCache(ctx context.Context) (bool, error) {
	if l.cacheDir == "" {
		return false, nil
	}
	path := filepath.Join(l.cacheDir, cacheFilename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	records, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		l.metrics.DatasetFetches.WithLabelValues(SourceCache, "error").Inc()
		return false, err
	}

	l.store.SetRecords(records, SourceCache)
	l.observeLoaded(SourceCache, len(records))
	l.logger.Info("dataset loaded from cache", "path", path, "rows", len(records))
	l.notify(ctx, RefreshEvent{Source: SourceCache, Rows: len(records), LoadedAt: l.loadedAt()})
	return true, nil
}

// LoadOnce performs a single network fetch. On success the snapshot is
// replaced, the disk cache rewritten, and a refresh notification published.
// On failure the error is recorded on the store and returned; there is no
// retry within an attempt.
func (l *Loader) LoadOnce(ctx context.Context) error {
	start := time.Now()

	records, csvBytes, err := l.fetcher.Fetch(ctx)
	if err != nil {
		l.metrics.DatasetFetches.WithLabelValues(SourceNetwork, "error").Inc()
		l.store.SetError(err)
		return err
	}

	l.store.SetRecords(records, SourceNetwork)
	l.observeLoaded(SourceNetwork, len(records))
	l.metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())

	l.writeCache(csvBytes)
	l.notify(ctx, RefreshEvent{Source: SourceNetwork, Rows: len(records), LoadedAt: l.loadedAt()})
	return nil
}

// Run re-fetches the dataset every interval until the context is cancelled,
// backing off exponentially after failures. It returns immediately when the
// refresh loop is disabled.
func (l *Loader) Run(ctx context.Context) error {
	if l.interval <= 0 {
		l.logger.Info("dataset refresh disabled")
		return nil
	}
	l.logger.Info("dataset refresh loop started", "interval", l.interval)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	const initialBackoff = 200 * time.Millisecond
	const maxBackoff = 5 * time.Second
	backoff := initialBackoff

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("dataset refresh loop stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
		}

		for {
			err := l.LoadOnce(ctx)
			if err == nil {
				backoff = initialBackoff
				break
			}
			if ctx.Err() != nil {
				return nil
			}
			l.logger.Error("dataset refresh failed", "error", err, "backoff", backoff)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
		}
	}
}

func (l *Loader) observeLoaded(source string, rows int) {
	l.metrics.DatasetFetches.WithLabelValues(source, "success").Inc()
	l.metrics.DatasetRows.Set(float64(rows))
	l.metrics.DatasetLoaded.Set(1)
}

// writeCache persists the fetched CSV bytes for the next session. Cache
// write failures are logged, never fatal.
func (l *Loader) writeCache(csvBytes []byte) {
	if l.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(l.cacheDir, 0o755); err != nil {
		l.logger.Warn("create cache dir failed", "dir", l.cacheDir, "error", err)
		return
	}
	path := filepath.Join(l.cacheDir, cacheFilename)
	if err := os.WriteFile(path, csvBytes, 0o644); err != nil {
		l.logger.Warn("write dataset cache failed", "path", path, "error", err)
		return
	}
	l.logger.Info("dataset cache written", "path", path, "bytes", len(csvBytes))
}

// notify publishes a refresh event if a notifier is configured. Publish
// failures are logged and counted, never fatal.
func (l *Loader) notify(ctx context.Context, event RefreshEvent) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.NotifyRefresh(ctx, event); err != nil {
		l.metrics.NotifyErrors.Inc()
		l.logger.Warn("refresh notification failed", "error", err)
		return
	}
	l.metrics.NotifyPublished.Inc()
}

func (l *Loader) loadedAt() time.Time {
	_, loadedAt, _ := l.store.Meta()
	return loadedAt
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
