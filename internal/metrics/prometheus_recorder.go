package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	scanDuration     prom.Histogram
	generateDuration prom.Histogram
	docComments      prom.Counter
	commands         *prom.CounterVec
	unknownCommands  prom.Counter
	exampleCount     *prom.GaugeVec
	manifestsWritten *prom.CounterVec
	runOutcomes      *prom.CounterVec
	warnings         prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.scanDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "exdoc",
			Name:      "scan_duration_seconds",
			Help:      "Duration of the source scan stage",
			Buckets:   prom.DefBuckets,
		})
		pr.generateDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "exdoc",
			Name:      "generate_duration_seconds",
			Help:      "Total duration of one generation run",
			Buckets:   prom.DefBuckets,
		})
		pr.docComments = prom.NewCounter(prom.CounterOpts{
			Namespace: "exdoc",
			Name:      "doc_comments_total",
			Help:      "Documentation comments interpreted",
		})
		pr.commands = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "exdoc",
			Name:      "commands_total",
			Help:      "Recognized annotation commands by name",
		}, []string{"command"})
		pr.unknownCommands = prom.NewCounter(prom.CounterOpts{
			Namespace: "exdoc",
			Name:      "unknown_commands_total",
			Help:      "Command tokens outside the closed vocabulary",
		})
		pr.exampleCount = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "exdoc",
			Name:      "example_count",
			Help:      "Examples found in the last run, by manifest kind",
		}, []string{"kind"})
		pr.manifestsWritten = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "exdoc",
			Name:      "manifests_written_total",
			Help:      "Manifest documents written, by kind",
		}, []string{"kind"})
		pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "exdoc",
			Name:      "run_outcomes_total",
			Help:      "Generation run outcomes by final status",
		}, []string{"outcome"})
		pr.warnings = prom.NewCounter(prom.CounterOpts{
			Namespace: "exdoc",
			Name:      "warnings_total",
			Help:      "Diagnostics of warning severity",
		})
		reg.MustRegister(pr.scanDuration, pr.generateDuration, pr.docComments,
			pr.commands, pr.unknownCommands, pr.exampleCount,
			pr.manifestsWritten, pr.runOutcomes, pr.warnings)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveScanDuration(d time.Duration) {
	if p == nil || p.scanDuration == nil {
		return
	}
	p.scanDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveGenerateDuration(d time.Duration) {
	if p == nil || p.generateDuration == nil {
		return
	}
	p.generateDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddDocComments(n int) {
	if p == nil || p.docComments == nil {
		return
	}
	p.docComments.Add(float64(n))
}

func (p *PrometheusRecorder) IncCommand(command string) {
	if p == nil || p.commands == nil {
		return
	}
	p.commands.WithLabelValues(command).Inc()
}

func (p *PrometheusRecorder) IncUnknownCommand() {
	if p == nil || p.unknownCommands == nil {
		return
	}
	p.unknownCommands.Inc()
}

func (p *PrometheusRecorder) SetExampleCount(kind string, n int) {
	if p == nil || p.exampleCount == nil {
		return
	}
	p.exampleCount.WithLabelValues(kind).Set(float64(n))
}

func (p *PrometheusRecorder) IncManifestWritten(kind string) {
	if p == nil || p.manifestsWritten == nil {
		return
	}
	p.manifestsWritten.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddWarnings(n int) {
	if p == nil || p.warnings == nil || n <= 0 {
		return
	}
	p.warnings.Add(float64(n))
}
