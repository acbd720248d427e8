package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher publishes domain events
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

// Subjects
const (
	LoanSubmitted     = "loan.submitted"
	LoanStatusChanged = "loan.status_changed"
)

// LoanSubmittedEvent is published after a loan application is stored
type LoanSubmittedEvent struct {
	LoanID    string    `json:"loan_id"`
	CompanyID string    `json:"company_id"`
	Amount    float64   `json:"amount"`
	Tenure    int       `json:"tenure"`
	CreatedAt time.Time `json:"created_at"`
}

// LoanStatusChangedEvent is published after a status transition commits
type LoanStatusChangedEvent struct {
	LoanID      string    `json:"loan_id"`
	CompanyID   string    `json:"company_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	PerformedBy string    `json:"performed_by"`
	ChangedAt   time.Time `json:"changed_at"`
}

// NATSPublisher publishes JSON events to NATS
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to url
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("eazicred"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

// Publish marshals data and publishes it on subject
func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.conn.Publish(subject, payload)
}

// Close drains pending messages and closes the connection
func (n *NATSPublisher) Close() error {
	return n.conn.Drain()
}

// NoopPublisher drops every event. Used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}

// New connects to NATS when url is set, otherwise returns a NoopPublisher.
// A failed connection is logged and also falls back to NoopPublisher.
func New(url string) Publisher {
	if url == "" {
		return NoopPublisher{}
	}
	p, err := NewNATSPublisher(url)
	if err != nil {
		log.Printf("⚠️ NATS unavailable, events disabled: %v", err)
		return NoopPublisher{}
	}
	log.Printf("✅ NATS connected [%s]", url)
	return p
}
