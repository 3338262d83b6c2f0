package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/exdoc/internal/generator"
	"git.home.luguber.info/inful/exdoc/internal/logfields"
	"git.home.luguber.info/inful/exdoc/internal/notify"
	"git.home.luguber.info/inful/exdoc/internal/runstore"
	"git.home.luguber.info/inful/exdoc/internal/workspace"
)

// GenerateCmd runs one generation pass: scan, interpret, write manifests.
type GenerateCmd struct {
	Output string `short:"o" help:"Override the configured output directory"`
}

func (g *GenerateCmd) Run(_ *Global, c *CLI) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if g.Output != "" {
		cfg.Output.Directory = g.Output
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

	publisher, err := notify.FromConfig(cfg.Notifications)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("closing notifications failed", logfields.Error(err))
		}
	}()

	report, runErr := generator.New(cfg, ws.GetPath()).
		WithPublisher(publisher).
		Run(ctx, "")
	if report != nil {
		persistReport(ctx, cfg.History.Path, report)
		printReport(report)
	}
	return runErr
}

func printReport(report *generator.Report) {
	fmt.Printf("Run %s finished: %s\n", report.RunID, report.Outcome)
	fmt.Printf("  sources: %d  doc comments: %d  entities: %d\n",
		report.Sources, report.DocComments, report.Entities)
	fmt.Printf("  examples: %d  demos: %d  warnings: %d\n",
		report.Examples, report.Demos, report.Warnings)
	for _, path := range report.Manifests {
		fmt.Printf("  wrote %s\n", path)
	}
}

// persistReport records the run in the history database when one is
// configured. History failures never fail the generation itself.
func persistReport(ctx context.Context, dbPath string, report *generator.Report) {
	if dbPath == "" {
		return
	}
	store, err := runstore.NewSQLiteStore(dbPath)
	if err != nil {
		slog.Warn("cannot open run history store", logfields.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("closing run history store failed", logfields.Error(err))
		}
	}()

	payload, err := json.Marshal(report)
	if err != nil {
		payload = nil
	}
	rec := runstore.RunRecord{
		ID:         report.RunID,
		Project:    report.Project,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Outcome:    report.Outcome,
		Warnings:   report.Warnings,
		Examples:   report.Examples + report.Demos,
		Manifests:  len(report.Manifests),
		Report:     payload,
	}
	if err := store.Append(ctx, rec); err != nil {
		slog.Warn("failed to persist run record", logfields.Error(err))
	}
}
