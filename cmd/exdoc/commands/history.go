package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/exdoc/internal/logfields"
	"git.home.luguber.info/inful/exdoc/internal/runstore"
)

// HistoryCmd lists recent generation runs from the history database.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show" default:"10"`
}

func (h *HistoryCmd) Run(_ *Global, c *CLI) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("run history is not configured; set history.path in %s", c.Config)
	}

	store, err := runstore.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("closing run history store failed", logfields.Error(err))
		}
	}()

	runs, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	fmt.Printf("%-20s %-9s %9s %9s %10s  %s\n",
		"STARTED", "OUTCOME", "WARNINGS", "EXAMPLES", "MANIFESTS", "RUN ID")
	for _, run := range runs {
		fmt.Printf("%-20s %-9s %9d %9d %10d  %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Outcome, run.Warnings, run.Examples, run.Manifests, run.ID)
	}
	return nil
}
