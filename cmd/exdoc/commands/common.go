// Package commands defines the exdoc command line interface.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/exdoc/internal/config"
)

// Global carries state shared by subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition with global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"exdoc.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Run one generation pass and write the manifests"`
	Scan     ScanCmd     `cmd:"" help:"List discovered doc comments and entities without writing manifests"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Daemon   DaemonCmd   `cmd:"" help:"Regenerate continuously on an interval and on source changes"`
	History  HistoryCmd  `cmd:"" help:"Show recent generation runs"`
}

// AfterApply runs after flag parsing; set up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.Config)
}
