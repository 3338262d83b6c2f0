// Package notify publishes manifest-written events so downstream consumers
// (search indexers, docs portals) can react to fresh manifests without
// polling the output directory.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/exdoc/internal/config"
	"git.home.luguber.info/inful/exdoc/internal/logfields"
)

// Event is the message published after a manifest file has been written.
type Event struct {
	RunID       string    `json:"run_id"`
	Project     string    `json:"project"`
	Kind        string    `json:"kind"`
	Path        string    `json:"path"`
	Examples    int       `json:"examples"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Publisher delivers manifest events.
type Publisher interface {
	Publish(event Event) error
	Close() error
}

// NoopPublisher drops events. It stands in when notifications are disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(Event) error { return nil }
func (NoopPublisher) Close() error        { return nil }

// NATSPublisher publishes events to a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

const defaultSubject = "exdoc.manifests"

// NewNATSPublisher connects to the NATS server at url. An empty url uses the
// default local server, an empty subject the default exdoc subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	if subject == "" {
		subject = defaultSubject
	}

	conn, err := nats.Connect(url, nats.Name("exdoc"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("notifications enabled", logfields.URL(url), slog.String("subject", subject))
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish sends one event.
func (p *NATSPublisher) Publish(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	slog.Debug("published manifest event",
		slog.String("kind", event.Kind),
		logfields.Path(event.Path))
	return nil
}

// Close drains the connection so buffered events reach the server before the
// process exits.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		return p.conn.Drain()
	}
	return nil
}

// FromConfig builds the configured publisher. Disabled notifications get the
// noop publisher.
func FromConfig(cfg config.Notifications) (Publisher, error) {
	if !cfg.Enabled {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(cfg.URL, cfg.Subject)
}
