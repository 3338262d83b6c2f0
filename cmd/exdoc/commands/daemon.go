package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/exdoc/internal/daemon"
)

// DaemonCmd runs exdoc continuously until interrupted.
type DaemonCmd struct{}

func (d *DaemonCmd) Run(_ *Global, c *CLI) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dm, err := daemon.New(cfg)
	if err != nil {
		return err
	}
	if err := dm.Start(ctx); err != nil {
		return err
	}

	slog.Info("waiting for shutdown signal")
	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return dm.Stop(stopCtx)
}
