// Package events publishes run reports to NATS for downstream consumers
// (dashboards, notification hooks). Publishing is optional and fire-and-forget:
// a run never fails because the event could not be delivered.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/mediamirror/internal/assets"
	"git.home.luguber.info/inful/mediamirror/internal/config"
)

// RunEvent is the wire form of a published run report.
type RunEvent struct {
	Type   string        `json:"type"`
	Report assets.Report `json:"report"`
}

// Publisher manages the NATS connection for run-report events.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS using the events configuration.
func NewPublisher(cfg config.EventsConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("events are disabled")
	}
	conn, err := nats.Connect(cfg.NATSURL, nats.Name("mediamirror"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	slog.Info("NATS publisher initialized", "url", cfg.NATSURL, "subject", cfg.Subject)
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishRun publishes one run report.
func (p *Publisher) PublishRun(report *assets.Report) error {
	data, err := json.Marshal(RunEvent{Type: "run.completed", Report: *report})
	if err != nil {
		return fmt.Errorf("marshal run event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish run event: %w", err)
	}
	return p.conn.Flush()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}
