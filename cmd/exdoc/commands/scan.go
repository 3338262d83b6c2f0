package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/exdoc/internal/generator"
	"git.home.luguber.info/inful/exdoc/internal/logfields"
	"git.home.luguber.info/inful/exdoc/internal/workspace"
)

// ScanCmd lists what a generation run would build, for debugging annotation
// problems, without touching the output directory.
type ScanCmd struct{}

func (s *ScanCmd) Run(_ *Global, c *CLI) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ws := workspace.NewManager("")
	if err := ws.Create(); err != nil {
		return err
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			slog.Warn("workspace cleanup failed", logfields.Error(err))
		}
	}()

	disc, err := generator.New(cfg, ws.GetPath()).Discover(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d doc comments across %d sources\n", disc.DocComments, disc.Sources)

	if len(disc.Entities) > 0 {
		fmt.Println()
		fmt.Println("Entities:")
		for _, e := range disc.Entities {
			fmt.Printf("  %-11s %-40s %s\n", e.Kind, e.Name, e.Loc)
		}
	}

	if len(disc.Diagnostics) > 0 {
		fmt.Println()
		fmt.Println("Diagnostics:")
		for _, d := range disc.Diagnostics {
			fmt.Printf("  %-7s %s\n", d.Severity, d)
		}
	}
	return nil
}
