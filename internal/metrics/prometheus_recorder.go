package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	assets        *prom.CounterVec
	docsScanned   prom.Counter
	docsChanged   prom.Counter
	fetchDuration prom.Histogram
	runDuration   prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.assets = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mediamirror",
			Name:      "assets_total",
			Help:      "Asset resolutions by outcome",
		}, []string{"outcome"})
		pr.docsScanned = prom.NewCounter(prom.CounterOpts{
			Namespace: "mediamirror",
			Name:      "documents_scanned_total",
			Help:      "Documents scanned for remote asset references",
		})
		pr.docsChanged = prom.NewCounter(prom.CounterOpts{
			Namespace: "mediamirror",
			Name:      "documents_changed_total",
			Help:      "Documents rewritten with localized references",
		})
		pr.fetchDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mediamirror",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of individual asset downloads",
			Buckets:   prom.DefBuckets,
		})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mediamirror",
			Name:      "run_duration_seconds",
			Help:      "Total pipeline run duration",
			Buckets:   prom.DefBuckets,
		})
		reg.MustRegister(pr.assets, pr.docsScanned, pr.docsChanged, pr.fetchDuration, pr.runDuration)
	})
	return pr
}

func (p *PrometheusRecorder) IncAsset(outcome AssetOutcome) {
	if p == nil || p.assets == nil {
		return
	}
	p.assets.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncDocumentScanned() {
	if p == nil || p.docsScanned == nil {
		return
	}
	p.docsScanned.Inc()
}

func (p *PrometheusRecorder) IncDocumentChanged() {
	if p == nil || p.docsChanged == nil {
		return
	}
	p.docsChanged.Inc()
}

func (p *PrometheusRecorder) ObserveFetchDuration(d time.Duration) {
	if p == nil || p.fetchDuration == nil {
		return
	}
	p.fetchDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}
