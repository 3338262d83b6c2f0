// Package generator orchestrates one documentation generation run: resolve
// sources, scan their trees for doc comments, interpret the comments into
// the documentation graph, resolve example file lists, and compile the
// manifests.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/exdoc/internal/config"
	"git.home.luguber.info/inful/exdoc/internal/diag"
	"git.home.luguber.info/inful/exdoc/internal/docmodel"
	"git.home.luguber.info/inful/exdoc/internal/git"
	"git.home.luguber.info/inful/exdoc/internal/interpreter"
	"git.home.luguber.info/inful/exdoc/internal/logfields"
	"git.home.luguber.info/inful/exdoc/internal/manifest"
	"git.home.luguber.info/inful/exdoc/internal/metrics"
	"git.home.luguber.info/inful/exdoc/internal/notify"
	"git.home.luguber.info/inful/exdoc/internal/source"
)

// Generator runs the scan/interpret/compile pipeline for one project.
type Generator struct {
	cfg          *config.Config
	workspaceDir string
	recorder     metrics.Recorder
	publisher    notify.Publisher
}

// New creates a Generator. workspaceDir receives the checkouts of remote
// sources; it may be empty when every source is local.
func New(cfg *config.Config, workspaceDir string) *Generator {
	return &Generator{
		cfg:          cfg,
		workspaceDir: workspaceDir,
		recorder:     metrics.NoopRecorder{},
		publisher:    notify.NoopPublisher{},
	}
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	if r != nil {
		g.recorder = r
	}
	return g
}

// WithPublisher attaches a manifest event publisher (fluent helper).
func (g *Generator) WithPublisher(p notify.Publisher) *Generator {
	if p != nil {
		g.publisher = p
	}
	return g
}

// Run executes one generation run. baseline is the input hash of a previous
// run: when the scanned comments hash to the same value the run is skipped
// before interpretation. Pass "" to force generation.
//
// The returned report is non-nil even on error and carries whatever progress
// was made.
func (g *Generator) Run(ctx context.Context, baseline string) (*Report, error) {
	started := time.Now()
	runID := uuid.NewString()
	collector := diag.NewCollector(diag.LogReporter{})

	report := &Report{
		RunID:     runID,
		Project:   g.cfg.Project,
		StartedAt: started,
	}

	slog.Info("generation run starting",
		logfields.RunID(runID), logfields.Project(g.cfg.Project))

	roots := g.resolveRoots(ctx, collector)
	if len(roots) == 0 {
		g.finish(report, collector, metrics.OutcomeFailed)
		return report, fmt.Errorf("no usable sources")
	}
	report.Sources = len(roots)

	scanStart := time.Now()
	docs := g.scanDocs(roots, collector)
	g.recorder.ObserveScanDuration(time.Since(scanStart))
	g.recorder.AddDocComments(len(docs))
	report.DocComments = len(docs)

	report.InputHash = hashDocs(docs)
	if baseline != "" && report.InputHash == baseline {
		slog.Info("inputs unchanged, skipping generation", logfields.RunID(runID))
		g.finish(report, collector, metrics.OutcomeSkipped)
		return report, nil
	}

	graph := docmodel.NewGraph()
	in := interpreter.New(collector, g.recorder)
	for _, doc := range docs {
		if _, err := in.Interpret(doc, graph); err != nil {
			collector.Warningf(doc.Loc, "skipping comment: %v", err)
		}
	}
	report.Entities = graph.Len()

	resolver := source.NewExampleResolver(
		g.exampleRoots(roots), g.cfg.Scan.ExampleFilePatterns, g.excludes(), collector)
	perKind := map[string]int{}
	for _, ex := range graph.Examples() {
		resolver.Resolve(ex)
		if ex.IsDemo() {
			perKind[manifest.KindDemos]++
		} else {
			perKind[manifest.KindExamples]++
		}
	}
	report.Examples = perKind[manifest.KindExamples]
	report.Demos = perKind[manifest.KindDemos]
	g.recorder.SetExampleCount(metrics.KindExamples, report.Examples)
	g.recorder.SetExampleCount(metrics.KindDemos, report.Demos)

	writer := manifest.NewWriter(g.cfg, collector)
	written, err := writer.WriteManifests(graph)
	if err != nil {
		g.finish(report, collector, metrics.OutcomeFailed)
		return report, fmt.Errorf("writing manifests: %w", err)
	}
	report.Manifests = written

	for _, path := range written {
		kind := manifestKind(path)
		g.recorder.IncManifestWritten(kind)
		event := notify.Event{
			RunID:       runID,
			Project:     g.cfg.Project,
			Kind:        kind,
			Path:        path,
			Examples:    perKind[kind],
			GeneratedAt: time.Now(),
		}
		if err := g.publisher.Publish(event); err != nil {
			slog.Warn("failed to publish manifest event",
				logfields.Kind(kind), logfields.Error(err))
		}
	}

	outcome := metrics.OutcomeSuccess
	if collector.WarningCount() > 0 {
		outcome = metrics.OutcomeWarnings
	}
	g.finish(report, collector, outcome)

	slog.Info("generation run finished",
		logfields.RunID(runID),
		slog.String("outcome", report.Outcome),
		logfields.Count(len(written)),
		logfields.DurationMS(float64(time.Since(started).Milliseconds())))
	return report, nil
}

// Discover scans and interprets without writing manifests: it reports the
// entities the annotations would create plus every diagnostic raised on the
// way. Used by the scan command to debug annotation problems.
func (g *Generator) Discover(ctx context.Context) (*Discovery, error) {
	collector := diag.NewCollector(nil)

	roots := g.resolveRoots(ctx, collector)
	if len(roots) == 0 {
		return nil, fmt.Errorf("no usable sources")
	}
	docs := g.scanDocs(roots, collector)

	graph := docmodel.NewGraph()
	in := interpreter.New(collector, g.recorder)
	for _, doc := range docs {
		if _, err := in.Interpret(doc, graph); err != nil {
			collector.Warningf(doc.Loc, "skipping comment: %v", err)
		}
	}

	discovery := &Discovery{Sources: len(roots), DocComments: len(docs)}
	for _, node := range graph.Nodes() {
		discovery.Entities = append(discovery.Entities, EntitySummary{
			Kind: node.Kind(),
			Name: node.Base().Name,
			Loc:  node.Base().Loc,
		})
	}
	discovery.Diagnostics = collector.Diagnostics()
	return discovery, nil
}

// resolveRoots turns configured sources into scannable directories. Remote
// sources are synced into the workspace; a source that cannot be prepared is
// reported and skipped.
func (g *Generator) resolveRoots(ctx context.Context, reporter diag.Reporter) []string {
	var roots []string
	var client *git.Client
	for _, src := range g.cfg.Sources {
		if !src.IsRemote() {
			if info, err := os.Stat(src.Path); err != nil || !info.IsDir() {
				reporter.Warningf(docmodel.Location{}, "skipping source %s: not a directory: %s", src.Name, src.Path)
				continue
			}
			roots = append(roots, src.Path)
			continue
		}
		if client == nil {
			client = git.NewClient(g.workspaceDir).WithRetryConfig(g.cfg.Git)
		}
		path, err := client.Sync(ctx, src)
		if err != nil {
			reporter.Warningf(docmodel.Location{}, "skipping source %s: %v", src.Name, err)
			continue
		}
		roots = append(roots, path)
	}
	return roots
}

func (g *Generator) scanDocs(roots []string, reporter diag.Reporter) []*docmodel.Doc {
	scanner := source.NewScanner(g.cfg.Scan.FileTypes, g.excludes(), reporter)
	var docs []*docmodel.Doc
	for _, root := range roots {
		found, err := scanner.ScanTree(root)
		if err != nil {
			reporter.Warningf(docmodel.Location{File: root}, "scanning failed: %v", err)
			continue
		}
		docs = append(docs, found...)
	}
	return docs
}

func (g *Generator) exampleRoots(roots []string) []string {
	var out []string
	for _, root := range roots {
		for _, dir := range g.cfg.Scan.ExampleDirs {
			out = append(out, filepath.Join(root, dir))
		}
	}
	return out
}

func (g *Generator) excludes() source.ExcludeContext {
	return source.NewExcludeContext(g.cfg.Scan.ExcludeDirs, g.cfg.Scan.ExcludeFiles)
}

func (g *Generator) finish(report *Report, collector *diag.Collector, outcome metrics.OutcomeLabel) {
	report.FinishedAt = time.Now()
	report.Warnings = collector.WarningCount()
	report.Outcome = string(outcome)
	g.recorder.AddWarnings(report.Warnings)
	g.recorder.IncRunOutcome(outcome)
	g.recorder.ObserveGenerateDuration(report.FinishedAt.Sub(report.StartedAt))
}

// hashDocs fingerprints the scanned comments. Content-based, so the value
// stays stable across differently named workspace directories.
func hashDocs(docs []*docmodel.Doc) string {
	h := sha256.New()
	for _, doc := range docs {
		io.WriteString(h, filepath.Base(doc.Loc.File))
		io.WriteString(h, doc.Raw)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func manifestKind(path string) string {
	return strings.TrimSuffix(filepath.Base(path), "-manifest.xml")
}
