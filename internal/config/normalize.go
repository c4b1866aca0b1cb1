package config

import (
	"strings"
	"time"
)

// Defaults applied during normalization.
const (
	DefaultImageDir    = "./images"
	DefaultOutput      = "./site"
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
	DefaultRetries     = 2
	DefaultUserAgent   = "mediamirror/1.0"
	DefaultInterval    = time.Hour
	DefaultDebounce    = 2 * time.Second
	DefaultSubject     = "mediamirror.runs"
	DefaultHistoryPath = "./mediamirror-history.db"
	DefaultMetricsAddr = ":9090"
)

// Normalize fills defaults and cleans up user-provided values in place.
// Called by Load; tests constructing a Config by hand should call it too.
func (c *Config) Normalize() {
	cleaned := c.Origins[:0]
	for _, o := range c.Origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		cleaned = append(cleaned, o)
	}
	c.Origins = cleaned

	if c.ImageDir == "" {
		c.ImageDir = DefaultImageDir
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = DefaultTimeout
	}
	if c.Fetch.Concurrency <= 0 {
		c.Fetch.Concurrency = DefaultConcurrency
	}
	if c.Fetch.Retries < 0 {
		c.Fetch.Retries = DefaultRetries
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	c.Logging.Level = NormalizeLogLevel(c.Logging.Level)
	c.Logging.Format = NormalizeLogFormat(c.Logging.Format)
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = DefaultMetricsAddr
	}
	if c.Events.Subject == "" {
		c.Events.Subject = DefaultSubject
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
	if c.Daemon.Interval <= 0 {
		c.Daemon.Interval = DefaultInterval
	}
	if c.Daemon.Debounce <= 0 {
		c.Daemon.Debounce = DefaultDebounce
	}
}

// NormalizeLogLevel maps a raw level string to a supported slog level name.
// Unknown values fall back to "info".
func NormalizeLogLevel(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return "debug"
	case "warn", "warning":
		return "warn"
	case "error":
		return "error"
	default:
		return "info"
	}
}

// NormalizeLogFormat maps a raw format string to "text" or "json".
func NormalizeLogFormat(raw string) string {
	if strings.ToLower(strings.TrimSpace(raw)) == "json" {
		return "json"
	}
	return "text"
}
