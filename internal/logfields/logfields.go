package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyDocument   = "document"
	KeyURL        = "url"
	KeyDest       = "dest"
	KeyOrigin     = "origin"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Document(path string) slog.Attr   { return slog.String(KeyDocument, path) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Dest(path string) slog.Attr       { return slog.String(KeyDest, path) }
func Origin(o string) slog.Attr        { return slog.String(KeyOrigin, o) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
