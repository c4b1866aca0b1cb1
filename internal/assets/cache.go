package assets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"git.home.luguber.info/inful/mediamirror/internal/logfields"
	"git.home.luguber.info/inful/mediamirror/internal/metrics"
)

// Cache maps remote asset URLs to local paths for the lifetime of one run.
//
// A URL is fetched at most once per run: concurrent Resolve calls for the
// same URL collapse into a single download (single-flight), and successful
// resolutions are remembered. Failures are not cached, so a later reference
// to the same URL may retry after the first attempt has fully completed.
type Cache struct {
	root    string // output root on the filesystem
	namer   Namer
	fetcher *Fetcher
	rec     metrics.Recorder

	mu      sync.Mutex
	entries map[string]string // URL -> output-root-relative slash path

	group singleflight.Group

	downloaded int
	reused     int
	failed     int
}

// NewCache returns an empty per-run cache writing assets under root.
func NewCache(root string, namer Namer, fetcher *Fetcher, rec metrics.Recorder) *Cache {
	return &Cache{
		root:    root,
		namer:   namer,
		fetcher: fetcher,
		rec:     rec,
		entries: make(map[string]string),
	}
}

// Resolve returns the output-root-relative local path for url, downloading
// the asset if needed. ok is false when the asset could not be obtained; the
// caller leaves the original reference untouched in that case.
func (c *Cache) Resolve(ctx context.Context, url string) (localPath string, ok bool) {
	c.mu.Lock()
	if p, hit := c.entries[url]; hit {
		c.mu.Unlock()
		return p, true
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(url, func() (any, error) {
		// Another caller may have completed while we waited for the flight.
		c.mu.Lock()
		if p, hit := c.entries[url]; hit {
			c.mu.Unlock()
			return p, nil
		}
		c.mu.Unlock()
		return c.materialize(ctx, url)
	})
	if err != nil {
		c.mu.Lock()
		c.failed++
		c.mu.Unlock()
		c.rec.IncAsset(metrics.OutcomeFailed)
		slog.Warn("Asset could not be localized", logfields.URL(url), logfields.Error(err))
		return "", false
	}
	return v.(string), true
}

// materialize derives the local path for url and ensures a file exists there,
// reusing a previously downloaded copy when present.
func (c *Cache) materialize(ctx context.Context, url string) (string, error) {
	rel := c.namer.LocalPath(url)
	abs := filepath.Join(c.root, filepath.FromSlash(rel))

	if _, err := os.Stat(abs); err == nil {
		c.store(url, rel, false)
		return rel, nil
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create asset directory: %w", err)
	}

	start := time.Now()
	if err := c.fetcher.Fetch(ctx, url, abs); err != nil {
		return "", err
	}
	c.rec.ObserveFetchDuration(time.Since(start))
	c.store(url, rel, true)
	slog.Debug("Asset downloaded", logfields.URL(url), logfields.Dest(rel))
	return rel, nil
}

func (c *Cache) store(url, rel string, downloaded bool) {
	c.mu.Lock()
	c.entries[url] = rel
	if downloaded {
		c.downloaded++
	} else {
		c.reused++
	}
	c.mu.Unlock()
	if downloaded {
		c.rec.IncAsset(metrics.OutcomeDownloaded)
	} else {
		c.rec.IncAsset(metrics.OutcomeReused)
	}
}

// Counts returns the number of distinct assets downloaded, reused from a
// previous run, and failed so far.
func (c *Cache) Counts() (downloaded, reused, failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.downloaded, c.reused, c.failed
}
