// Package diag delivers structural annotation warnings and errors without
// ever aborting a run: one malformed comment must not take down documentation
// generation for an entire project, so every condition reported here is
// local-recovery by contract.
package diag

import (
	"fmt"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/exdoc/internal/docmodel"
	"git.home.luguber.info/inful/exdoc/internal/logfields"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one reported condition with its source location.
type Diagnostic struct {
	Severity Severity
	Loc      docmodel.Location
	Message  string
}

// String renders the diagnostic in location: message form.
func (d Diagnostic) String() string {
	if d.Loc.IsZero() {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.Loc, d.Message)
}

// Reporter receives diagnostics. Implementations must be cheap: reporting
// happens inline with interpretation.
type Reporter interface {
	Warningf(loc docmodel.Location, format string, args ...any)
	Errorf(loc docmodel.Location, format string, args ...any)
}

// NoopReporter discards all diagnostics.
type NoopReporter struct{}

func (NoopReporter) Warningf(docmodel.Location, string, ...any) {}
func (NoopReporter) Errorf(docmodel.Location, string, ...any)   {}

// LogReporter forwards diagnostics to slog.
type LogReporter struct{}

func (LogReporter) Warningf(loc docmodel.Location, format string, args ...any) {
	slog.Warn(fmt.Sprintf(format, args...), logfields.File(loc.File), logfields.Line(loc.Line))
}

func (LogReporter) Errorf(loc docmodel.Location, format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...), logfields.File(loc.File), logfields.Line(loc.Line))
}

// Collector retains diagnostics for the generation report, optionally
// forwarding each to a wrapped reporter. Safe for use from the daemon's
// regeneration goroutine.
type Collector struct {
	mu      sync.Mutex
	entries []Diagnostic
	next    Reporter
}

// NewCollector creates a Collector that forwards to next (may be nil).
func NewCollector(next Reporter) *Collector {
	return &Collector{next: next}
}

func (c *Collector) Warningf(loc docmodel.Location, format string, args ...any) {
	c.record(Diagnostic{Severity: SeverityWarning, Loc: loc, Message: fmt.Sprintf(format, args...)})
	if c.next != nil {
		c.next.Warningf(loc, format, args...)
	}
}

func (c *Collector) Errorf(loc docmodel.Location, format string, args ...any) {
	c.record(Diagnostic{Severity: SeverityError, Loc: loc, Message: fmt.Sprintf(format, args...)})
	if c.next != nil {
		c.next.Errorf(loc, format, args...)
	}
}

func (c *Collector) record(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, d)
}

// Diagnostics returns a copy of everything collected so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.entries))
	copy(out, c.entries)
	return out
}

// WarningCount returns the number of collected warnings.
func (c *Collector) WarningCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.entries {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}
