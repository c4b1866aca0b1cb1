package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level mediamirror configuration.
type Config struct {
	Origins  []string       `yaml:"origins"`
	ImageDir string         `yaml:"image_dir"`
	Output   string         `yaml:"output"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Markdown bool           `yaml:"markdown"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Events   EventsConfig   `yaml:"events"`
	History  HistoryConfig  `yaml:"history"`
	Daemon   DaemonConfig   `yaml:"daemon"`
}

// FetchConfig controls the HTTP download behavior.
type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
	Retries     int           `yaml:"retries"`
	UserAgent   string        `yaml:"user_agent"`
}

// LoggingConfig controls slog setup.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// EventsConfig controls optional NATS run-report publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// HistoryConfig controls the optional SQLite run history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DaemonConfig controls daemon-mode scheduling and watching.
type DaemonConfig struct {
	Interval time.Duration `yaml:"interval"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Enabled reports whether the localization pipeline has anything to do.
// An empty origin list disables the whole system.
func (c *Config) Enabled() bool { return len(c.Origins) > 0 }

// Load reads and normalizes configuration from the given YAML file.
// A .env/.env.local file next to the process is loaded first (without
// overriding existing process environment), then ${VAR} references in the
// YAML are expanded, then MEDIAMIRROR_* overrides are applied.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)
	cfg.Normalize()
	return &cfg, nil
}

// loadEnvFiles loads the first .env file found. Missing files are fine;
// godotenv.Load never overrides variables already present in the process.
func loadEnvFiles() {
	for _, p := range []string{".env", ".env.local"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

const exampleConfig = `# mediamirror configuration
origins:
  - https://cdn.example.com
image_dir: ./images
output: ./site
fetch:
  timeout: 30s
  concurrency: 4
  retries: 2
markdown: false
logging:
  level: info
  format: text
metrics:
  enabled: false
  listen: ":9090"
events:
  enabled: false
  nats_url: nats://localhost:4222
  subject: mediamirror.runs
history:
  enabled: false
  path: ./mediamirror-history.db
daemon:
  interval: 1h
  watch: false
  debounce: 2s
`

// Init writes a starter configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
