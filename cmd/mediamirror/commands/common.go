package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mediamirror/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"mediamirror.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run     RunCmd     `cmd:"" help:"Localize remote asset references in a built output tree"`
	Verify  VerifyCmd  `cmd:"" help:"Check a tree for leftover remote references and missing local assets"`
	Daemon  DaemonCmd  `cmd:"" help:"Continuously re-localize the output tree on a schedule or on changes"`
	History HistoryCmd `cmd:"" help:"Show recent localization runs from the history store"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; the verbose flag takes effect before
// the config file is even read.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig loads the configuration and reapplies logging setup from it
// (unless -v already forced debug).
func LoadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !root.Verbose {
		ConfigureLogging(cfg.Logging)
	}
	return cfg, nil
}

// ConfigureLogging installs the default slog logger per config.
func ConfigureLogging(lc config.LoggingConfig) {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// ResolveRoot picks the output root: an explicit CLI argument wins over the
// configured default.
func ResolveRoot(cliRoot string, cfg *config.Config) string {
	if cliRoot != "" {
		return cliRoot
	}
	return cfg.Output
}
