// Package runstore persists generation run records so past runs can be
// inspected with the history command.
package runstore

import (
	"context"
	"time"
)

// RunRecord is one generation run's summary row plus its full JSON report.
type RunRecord struct {
	ID         string
	Project    string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    string
	Warnings   int
	Examples   int
	Manifests  int
	Report     []byte
}

// Store persists run records.
type Store interface {
	// Append adds a finished run to the store.
	Append(ctx context.Context, rec RunRecord) error

	// Recent returns up to limit runs, most recent first.
	Recent(ctx context.Context, limit int) ([]RunRecord, error)

	// Close releases the store's resources.
	Close() error
}

// NoopStore discards records. It stands in when history persistence is not
// configured.
type NoopStore struct{}

func (NoopStore) Append(context.Context, RunRecord) error          { return nil }
func (NoopStore) Recent(context.Context, int) ([]RunRecord, error) { return nil, nil }
func (NoopStore) Close() error                                     { return nil }
