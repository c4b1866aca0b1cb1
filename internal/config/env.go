package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnvOverrides applies MEDIAMIRROR_* environment overrides on top of the
// file-based configuration. Only a small, documented set of knobs is exposed;
// everything else belongs in the YAML file.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("MEDIAMIRROR_ORIGINS"); v != "" {
		c.Origins = splitList(v)
	}
	if v := os.Getenv("MEDIAMIRROR_IMAGE_DIR"); v != "" {
		c.ImageDir = v
	}
	if v := os.Getenv("MEDIAMIRROR_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("MEDIAMIRROR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MEDIAMIRROR_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("MEDIAMIRROR_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Fetch.Timeout = d
		}
	}
	if v := os.Getenv("MEDIAMIRROR_FETCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Fetch.Concurrency = n
		}
	}
	if v := os.Getenv("MEDIAMIRROR_NATS_URL"); v != "" {
		c.Events.NATSURL = v
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
