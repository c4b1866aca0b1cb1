package metrics

import "time"

// AssetOutcome enumerates per-asset resolution outcomes for counters.
type AssetOutcome string

const (
	OutcomeDownloaded AssetOutcome = "downloaded"
	OutcomeReused     AssetOutcome = "reused"
	OutcomeFailed     AssetOutcome = "failed"
)

// Recorder defines observability hooks for the localization pipeline.
// Implementations may forward to Prometheus; the NoopRecorder default makes
// metrics optional at every call site without nil checks.
type Recorder interface {
	IncAsset(outcome AssetOutcome)
	IncDocumentScanned()
	IncDocumentChanged()
	ObserveFetchDuration(d time.Duration)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncAsset(AssetOutcome)              {}
func (NoopRecorder) IncDocumentScanned()                {}
func (NoopRecorder) IncDocumentChanged()                {}
func (NoopRecorder) ObserveFetchDuration(time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)   {}
