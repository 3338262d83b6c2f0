package metrics

import "time"

// OutcomeLabel enumerates run outcome categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeWarnings OutcomeLabel = "warnings"
	OutcomeSkipped  OutcomeLabel = "skipped"
	OutcomeFailed   OutcomeLabel = "failed"
)

// Manifest kind labels for metrics split by partition.
const (
	KindExamples = "examples"
	KindDemos    = "demos"
)

// Recorder defines observability hooks for generation runs. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe on
// partially initialized receivers so injection stays optional.
type Recorder interface {
	ObserveScanDuration(d time.Duration)
	ObserveGenerateDuration(d time.Duration)
	AddDocComments(n int)
	IncCommand(command string)
	IncUnknownCommand()
	SetExampleCount(kind string, n int)
	IncManifestWritten(kind string)
	IncRunOutcome(outcome OutcomeLabel)
	AddWarnings(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveScanDuration(time.Duration)     {}
func (NoopRecorder) ObserveGenerateDuration(time.Duration) {}
func (NoopRecorder) AddDocComments(int)                    {}
func (NoopRecorder) IncCommand(string)                     {}
func (NoopRecorder) IncUnknownCommand()                    {}
func (NoopRecorder) SetExampleCount(string, int)           {}
func (NoopRecorder) IncManifestWritten(string)             {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)            {}
func (NoopRecorder) AddWarnings(int)                       {}
