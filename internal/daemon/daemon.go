// Package daemon runs exdoc continuously: manifests are regenerated on a
// fixed interval and whenever a watched source tree changes. Runs are
// serialized, recorded in the run history store, and skipped early when the
// scanned inputs have not changed since the previous run.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/exdoc/internal/config"
	"git.home.luguber.info/inful/exdoc/internal/generator"
	"git.home.luguber.info/inful/exdoc/internal/logfields"
	"git.home.luguber.info/inful/exdoc/internal/metrics"
	"git.home.luguber.info/inful/exdoc/internal/notify"
	"git.home.luguber.info/inful/exdoc/internal/runstore"
	"git.home.luguber.info/inful/exdoc/internal/source"
	"git.home.luguber.info/inful/exdoc/internal/workspace"
)

// Status is the daemon lifecycle state.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
)

// Daemon owns the long-running generation loop and its supporting services.
type Daemon struct {
	cfg    *config.Config
	status atomic.Value // Status

	workspace *workspace.Manager
	store     runstore.Store
	publisher notify.Publisher
	recorder  metrics.Recorder

	scheduler  gocron.Scheduler
	watcher    *sourceWatcher
	metricsSrv *http.Server

	// trigger carries run requests; capacity one so bursts collapse into
	// a single pending run.
	trigger  chan string
	stopChan chan struct{}
	done     chan struct{}

	mu       sync.Mutex
	lastHash string
}

// New assembles a daemon from the configuration. Nothing is started; call
// Start.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	d := &Daemon{
		cfg:       cfg,
		workspace: workspace.NewPersistentManager(os.TempDir(), "exdoc-working"),
		store:     runstore.NoopStore{},
		publisher: notify.NoopPublisher{},
		recorder:  metrics.NoopRecorder{},
		trigger:   make(chan string, 1),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	d.status.Store(StatusStopped)
	return d, nil
}

// Status returns the current lifecycle state.
func (d *Daemon) Status() Status {
	return d.status.Load().(Status)
}

// Start brings up the history store, notifications, metrics endpoint, the
// periodic schedule and the source watcher, then launches the run loop with
// an immediate first run. It does not block.
func (d *Daemon) Start(ctx context.Context) error {
	d.status.Store(StatusStarting)

	if err := d.workspace.Create(); err != nil {
		return fmt.Errorf("preparing workspace: %w", err)
	}

	if path := d.cfg.History.Path; path != "" {
		store, err := runstore.NewSQLiteStore(path)
		if err != nil {
			return fmt.Errorf("opening run history store: %w", err)
		}
		d.store = store
	}

	publisher, err := notify.FromConfig(d.cfg.Notifications)
	if err != nil {
		return fmt.Errorf("connecting notifications: %w", err)
	}
	d.publisher = publisher

	if err := d.startMetricsServer(); err != nil {
		return err
	}

	if err := d.startScheduler(); err != nil {
		return err
	}

	if roots := localRoots(d.cfg); len(roots) > 0 {
		excludes := source.NewExcludeContext(d.cfg.Scan.ExcludeDirs, d.cfg.Scan.ExcludeFiles)
		watcher, err := newSourceWatcher(roots, excludes, d.cfg.Daemon.DebounceDuration(), func() {
			d.requestRun("source change")
		})
		if err != nil {
			return fmt.Errorf("creating source watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("starting source watcher: %w", err)
		}
		d.watcher = watcher
	}

	go d.runLoop(ctx)
	d.requestRun("startup")

	d.status.Store(StatusRunning)
	slog.Info("daemon started",
		logfields.Project(d.cfg.Project),
		slog.String("interval", d.cfg.Daemon.IntervalDuration().String()))
	return nil
}

// Stop shuts the daemon down in reverse start order. It waits for an
// in-flight run to finish.
func (d *Daemon) Stop(ctx context.Context) error {
	d.status.Store(StatusStopping)
	slog.Info("daemon stopping")

	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.scheduler != nil {
		if err := d.scheduler.Shutdown(); err != nil {
			slog.Warn("scheduler shutdown failed", logfields.Error(err))
		}
	}

	close(d.stopChan)
	select {
	case <-d.done:
	case <-ctx.Done():
	}

	if d.metricsSrv != nil {
		if err := d.metricsSrv.Shutdown(ctx); err != nil {
			slog.Warn("metrics server shutdown failed", logfields.Error(err))
		}
	}
	if err := d.publisher.Close(); err != nil {
		slog.Warn("closing notifications failed", logfields.Error(err))
	}
	if err := d.store.Close(); err != nil {
		slog.Warn("closing run history store failed", logfields.Error(err))
	}
	if err := d.workspace.Cleanup(); err != nil {
		slog.Warn("workspace cleanup failed", logfields.Error(err))
	}

	d.status.Store(StatusStopped)
	slog.Info("daemon stopped")
	return nil
}

func (d *Daemon) startScheduler() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(d.cfg.Daemon.IntervalDuration()),
		gocron.NewTask(func() { d.requestRun("interval") }),
		gocron.WithName("periodic-generation"),
	)
	if err != nil {
		return fmt.Errorf("scheduling periodic generation: %w", err)
	}
	scheduler.Start()
	d.scheduler = scheduler
	return nil
}

// startMetricsServer exposes Prometheus metrics when a listen address is
// configured and swaps the noop recorder for a real one.
func (d *Daemon) startMetricsServer() error {
	addr := d.cfg.Daemon.MetricsListen
	if addr == "" {
		return nil
	}

	registry := prom.NewRegistry()
	registry.MustRegister(
		promcollect.NewGoCollector(),
		promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	d.recorder = metrics.NewPrometheusRecorder(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	d.metricsSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("metrics endpoint listening", slog.String("addr", addr))
		if err := d.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", logfields.Error(err))
		}
	}()
	return nil
}

// requestRun queues a generation run. A request arriving while one is
// already pending is folded into it.
func (d *Daemon) requestRun(reason string) {
	select {
	case d.trigger <- reason:
	default:
	}
}

func (d *Daemon) runLoop(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopChan:
			return
		case reason := <-d.trigger:
			d.runOnce(ctx, reason)
		}
	}
}

func (d *Daemon) runOnce(ctx context.Context, reason string) {
	slog.Info("generation run requested", slog.String("reason", reason))

	d.mu.Lock()
	baseline := d.lastHash
	d.mu.Unlock()

	gen := generator.New(d.cfg, d.workspace.GetPath()).
		WithRecorder(d.recorder).
		WithPublisher(d.publisher)

	report, err := gen.Run(ctx, baseline)
	if err != nil {
		slog.Error("generation run failed", logfields.Error(err))
	}
	if report == nil {
		return
	}

	if report.InputHash != "" {
		d.mu.Lock()
		d.lastHash = report.InputHash
		d.mu.Unlock()
	}

	// Skipped runs happen on every quiet interval tick; recording them
	// would drown the history in no-ops.
	if report.Outcome == string(metrics.OutcomeSkipped) {
		return
	}
	d.persistRun(ctx, report)
}

func (d *Daemon) persistRun(ctx context.Context, report *generator.Report) {
	payload, err := json.Marshal(report)
	if err != nil {
		slog.Warn("failed to encode run report", logfields.Error(err))
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
	if err := d.store.Append(ctx, rec); err != nil {
		slog.Warn("failed to persist run record", logfields.Error(err))
	}
}

// localRoots lists the source directories worth watching. Remote checkouts
// only move when the daemon itself syncs them, so they are not watched.
func localRoots(cfg *config.Config) []string {
	var roots []string
	for _, src := range cfg.Sources {
		if src.IsRemote() || src.Path == "" {
			continue
		}
		if info, err := os.Stat(src.Path); err == nil && info.IsDir() {
			roots = append(roots, src.Path)
		}
	}
	return roots
}
