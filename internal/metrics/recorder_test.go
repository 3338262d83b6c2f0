package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testRecorder struct {
	scanObservations     int
	generateObservations int
	docComments          int
	commands             map[string]int
	unknownCommands      int
	exampleCounts        map[string]int
	manifestsWritten     map[string]int
	runOutcomes          map[OutcomeLabel]int
	warnings             int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		commands:         map[string]int{},
		exampleCounts:    map[string]int{},
		manifestsWritten: map[string]int{},
		runOutcomes:      map[OutcomeLabel]int{},
	}
}

func (t *testRecorder) ObserveScanDuration(time.Duration)     { t.scanObservations++ }
func (t *testRecorder) ObserveGenerateDuration(time.Duration) { t.generateObservations++ }
func (t *testRecorder) AddDocComments(n int)                  { t.docComments += n }
func (t *testRecorder) IncCommand(command string)             { t.commands[command]++ }
func (t *testRecorder) IncUnknownCommand()                    { t.unknownCommands++ }
func (t *testRecorder) SetExampleCount(kind string, n int)    { t.exampleCounts[kind] = n }
func (t *testRecorder) IncManifestWritten(kind string)        { t.manifestsWritten[kind]++ }
func (t *testRecorder) IncRunOutcome(outcome OutcomeLabel)    { t.runOutcomes[outcome]++ }
func (t *testRecorder) AddWarnings(n int)                     { t.warnings += n }

func TestRecorderImplementations(t *testing.T) {
	// Both implementations must satisfy the interface.
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)
	var _ Recorder = newTestRecorder()

	rec := newTestRecorder()
	rec.IncCommand("example")
	rec.IncCommand("example")
	rec.SetExampleCount(KindDemos, 3)
	rec.IncRunOutcome(OutcomeSuccess)
	rec.AddWarnings(2)

	require.Equal(t, 2, rec.commands["example"])
	require.Equal(t, 3, rec.exampleCounts[KindDemos])
	require.Equal(t, 1, rec.runOutcomes[OutcomeSuccess])
	require.Equal(t, 2, rec.warnings)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var p *PrometheusRecorder
	require.NotPanics(t, func() {
		p.ObserveScanDuration(time.Second)
		p.ObserveGenerateDuration(time.Second)
		p.AddDocComments(1)
		p.IncCommand("example")
		p.IncUnknownCommand()
		p.SetExampleCount(KindExamples, 1)
		p.IncManifestWritten(KindExamples)
		p.IncRunOutcome(OutcomeFailed)
		p.AddWarnings(1)
	})
}
