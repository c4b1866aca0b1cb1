package assets

import (
	"fmt"
	"time"
)

// Report summarizes one localization run.
type Report struct {
	RunID            string    `json:"run_id"`
	Root             string    `json:"root"`
	Started          time.Time `json:"started"`
	Finished         time.Time `json:"finished"`
	DocumentsScanned int       `json:"documents_scanned"`
	DocumentsChanged int       `json:"documents_changed"`
	Downloaded       int       `json:"downloaded"`
	Reused           int       `json:"reused"`
	Failed           int       `json:"failed"`
}

// Duration returns the wall-clock time the run took.
func (r Report) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// Outcome classifies the run for history and event consumers.
func (r Report) Outcome() string {
	if r.Failed > 0 {
		return "partial"
	}
	return "success"
}

// Summary renders the human-readable one-line result.
func (r Report) Summary() string {
	return fmt.Sprintf("localized %d assets (%d downloaded, %d reused, %d failed) across %d of %d documents in %s",
		r.Downloaded+r.Reused, r.Downloaded, r.Reused, r.Failed,
		r.DocumentsChanged, r.DocumentsScanned, r.Duration().Round(time.Millisecond))
}
