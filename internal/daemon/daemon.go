// Package daemon keeps an output tree localized continuously: runs are
// triggered on a fixed schedule and, optionally, whenever the tree changes.
// Runs are serialized; a trigger arriving mid-run coalesces into one pending
// follow-up run.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mediamirror/internal/assets"
	"git.home.luguber.info/inful/mediamirror/internal/config"
	"git.home.luguber.info/inful/mediamirror/internal/events"
	"git.home.luguber.info/inful/mediamirror/internal/logfields"
	"git.home.luguber.info/inful/mediamirror/internal/metrics"
	"git.home.luguber.info/inful/mediamirror/internal/runstore"
)

// Daemon owns the long-running localization loop and its optional sidecars
// (run history, event publishing, metrics endpoint).
type Daemon struct {
	cfg      *config.Config
	root     string
	pipeline *assets.Pipeline
	store    *runstore.Store
	pub      *events.Publisher
	trigger  chan string
}

// New assembles a daemon from configuration. Optional subsystems that fail to
// initialize disable themselves with a warning instead of preventing startup.
func New(cfg *config.Config, root string) *Daemon {
	rec := metrics.Recorder(metrics.NoopRecorder{})
	var registry *prom.Registry
	if cfg.Metrics.Enabled {
		registry = prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(registry)
	}

	d := &Daemon{
		cfg:      cfg,
		root:     root,
		pipeline: assets.NewPipeline(cfg, rec),
		trigger:  make(chan string, 1),
	}

	if cfg.History.Enabled {
		store, err := runstore.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("Run history disabled", logfields.Error(err))
		} else {
			d.store = store
		}
	}
	if cfg.Events.Enabled {
		pub, err := events.NewPublisher(cfg.Events)
		if err != nil {
			slog.Warn("Event publishing disabled", logfields.Error(err))
		} else {
			d.pub = pub
		}
	}
	if registry != nil {
		go serveMetrics(cfg.Metrics.Listen, registry)
	}
	return d
}

func serveMetrics(addr string, registry *prom.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	slog.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Metrics server stopped", logfields.Error(err))
	}
}

// Run executes the daemon loop until ctx is canceled. An initial run happens
// immediately on startup.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.close()

	scheduler, err := NewScheduler(d.cfg.Daemon.Interval, d.trigger)
	if err != nil {
		return fmt.Errorf("set up scheduler: %w", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			slog.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}()

	if d.cfg.Daemon.Watch {
		watcher, err := NewTreeWatcher(d.root, d.cfg.Daemon.Debounce, d.trigger)
		if err != nil {
			return fmt.Errorf("set up tree watcher: %w", err)
		}
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	slog.Info("Daemon started",
		"root", d.root,
		"interval", d.cfg.Daemon.Interval,
		"watch", d.cfg.Daemon.Watch)

	d.runOnce(ctx, "startup")
	for {
		select {
		case <-ctx.Done():
			slog.Info("Daemon shutting down")
			return nil
		case reason := <-d.trigger:
			d.runOnce(ctx, reason)
		}
	}
}

// runOnce executes a single pipeline run and feeds the optional sidecars.
func (d *Daemon) runOnce(ctx context.Context, reason string) {
	start := time.Now()
	report, err := d.pipeline.Run(ctx, d.root)
	if err != nil {
		slog.Error("Localization run failed", "reason", reason, logfields.Error(err))
		return
	}
	slog.Info("Localization run completed",
		"reason", reason,
		logfields.RunID(report.RunID),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))

	if d.store != nil {
		if err := d.store.Record(ctx, report); err != nil {
			slog.Warn("Failed to record run history", logfields.Error(err))
		}
	}
	if d.pub != nil {
		if err := d.pub.PublishRun(report); err != nil {
			slog.Warn("Failed to publish run event", logfields.Error(err))
		}
	}
}

func (d *Daemon) close() {
	if d.store != nil {
		_ = d.store.Close()
	}
	if d.pub != nil {
		d.pub.Close()
	}
}
