package commands

import (
	"context"
	"fmt"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mediamirror/internal/assets"
	"git.home.luguber.info/inful/mediamirror/internal/events"
	"git.home.luguber.info/inful/mediamirror/internal/logfields"
	"git.home.luguber.info/inful/mediamirror/internal/metrics"
	"git.home.luguber.info/inful/mediamirror/internal/runstore"
)

// RunCmd implements the 'run' command: one synchronous localization pass.
type RunCmd struct {
	Root string `arg:"" optional:"" help:"Output tree to process (default: config 'output')"`
}

func (r *RunCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return err
	}
	if !cfg.Enabled() {
		fmt.Println("No origins configured; nothing to do.")
		return nil
	}

	rec := metrics.Recorder(metrics.NoopRecorder{})
	if cfg.Metrics.Enabled {
		rec = metrics.NewPrometheusRecorder(prom.NewRegistry())
	}

	outputRoot := ResolveRoot(r.Root, cfg)
	report, err := assets.NewPipeline(cfg, rec).Run(context.Background(), outputRoot)
	if err != nil {
		return fmt.Errorf("localization run: %w", err)
	}

	if cfg.History.Enabled {
		if store, serr := runstore.Open(cfg.History.Path); serr != nil {
			slog.Warn("Run history unavailable", logfields.Error(serr))
		} else {
			if rerr := store.Record(context.Background(), report); rerr != nil {
				slog.Warn("Failed to record run history", logfields.Error(rerr))
			}
			_ = store.Close()
		}
	}
	if cfg.Events.Enabled {
		if pub, perr := events.NewPublisher(cfg.Events); perr != nil {
			slog.Warn("Event publishing unavailable", logfields.Error(perr))
		} else {
			if perr := pub.PublishRun(report); perr != nil {
				slog.Warn("Failed to publish run event", logfields.Error(perr))
			}
			pub.Close()
		}
	}

	fmt.Println(report.Summary())
	return nil
}
