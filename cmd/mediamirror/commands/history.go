package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/mediamirror/internal/runstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum number of runs to show"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("run history is disabled in the configuration")
	}

	store, err := runstore.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %-8s  %3d downloaded  %3d reused  %3d failed  %3d/%d documents  %s\n",
			r.Finished.Format(time.RFC3339), r.Outcome,
			r.Downloaded, r.Reused, r.Failed,
			r.DocumentsChanged, r.DocumentsScanned, r.RunID)
	}
	return nil
}
