package assets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/mediamirror/internal/config"
	"git.home.luguber.info/inful/mediamirror/internal/logfields"
	"git.home.luguber.info/inful/mediamirror/internal/metrics"
)

// Pipeline drives the whole localization flow over one output tree:
// enumerate documents, rewrite each one, collect a report.
type Pipeline struct {
	cfg *config.Config
	rec metrics.Recorder
}

// NewPipeline builds a pipeline from configuration. The recorder may be nil,
// in which case metrics are discarded.
func NewPipeline(cfg *config.Config, rec metrics.Recorder) *Pipeline {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Pipeline{cfg: cfg, rec: rec}
}

// Run localizes all remote asset references under root. Per-document and
// per-asset failures are logged and skipped; only an unusable output root is
// an error. The cache lives exactly as long as this call.
func (p *Pipeline) Run(ctx context.Context, root string) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Root:    root,
		Started: time.Now(),
	}
	log := slog.With(logfields.RunID(report.RunID))

	if !p.cfg.Enabled() {
		log.Info("No origins configured, nothing to localize")
		report.Finished = time.Now()
		return report, nil
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("output root %s is not a directory", root)
	}

	docs, err := WalkDocuments(root, p.cfg.Markdown)
	if err != nil {
		return nil, fmt.Errorf("enumerate documents: %w", err)
	}
	log.Info("Starting asset localization",
		slog.String("root", root),
		slog.Int("documents", len(docs)),
		slog.Int("origins", len(p.cfg.Origins)))

	cache := NewCache(root, NewNamer(p.cfg.ImageDir), NewFetcher(p.cfg.Fetch), p.rec)
	rewriter := NewRewriter(root, p.cfg.Origins, cache)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Fetch.Concurrency)
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			p.rec.IncDocumentScanned()
			changed, err := rewriter.RewriteDocument(gctx, doc)
			if err != nil {
				log.Warn("Skipping document", logfields.Document(doc), logfields.Error(err))
				return nil
			}
			if changed {
				p.rec.IncDocumentChanged()
				mu.Lock()
				report.DocumentsChanged++
				mu.Unlock()
				log.Debug("Document rewritten", logfields.Document(doc))
			}
			return nil
		})
	}
	// Workers never return errors, but respect context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.DocumentsScanned = len(docs)
	report.Downloaded, report.Reused, report.Failed = cache.Counts()
	report.Finished = time.Now()
	p.rec.ObserveRunDuration(report.Duration())

	log.Info("Asset localization finished",
		slog.Int("downloaded", report.Downloaded),
		slog.Int("reused", report.Reused),
		slog.Int("failed", report.Failed),
		slog.Int("documents_changed", report.DocumentsChanged),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	return report, nil
}
