package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/mediamirror/internal/daemon"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Root  string `arg:"" optional:"" help:"Output tree to keep localized (default: config 'output')"`
	Watch bool   `short:"w" help:"Also re-run when the output tree changes (overrides config)"`
}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return err
	}
	if d.Watch {
		cfg.Daemon.Watch = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return daemon.New(cfg, ResolveRoot(d.Root, cfg)).Run(ctx)
}
