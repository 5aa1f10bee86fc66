package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Grading-pipeline event subjects.
const (
	EventSubmissionCreated = "lumen.submission.created"
	EventSubmissionGraded  = "lumen.submission.graded"
	EventCertificateIssued = "lumen.certificate.issued"
)

// EventPublisher broadcasts grading lifecycle events to interested
// consumers (notifiers, analytics). Publishing is best-effort; a failed
// publish never fails the originating operation.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{})
}

type natsEventPublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
	now    func() time.Time
}

type eventEnvelope struct {
	Subject string      `json:"subject"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

// NewEventPublisher constructs a NATS-backed publisher. A nil connection
// disables publishing without error, which keeps tests and single-node
// deployments free of a broker dependency.
func NewEventPublisher(conn *nats.Conn, logger zerolog.Logger) EventPublisher {
	return &natsEventPublisher{
		conn:   conn,
		logger: logger.With().Str("component", "event_publisher").Logger(),
		now:    time.Now,
	}
}

func (p *natsEventPublisher) Publish(_ context.Context, subject string, payload interface{}) {
	if p.conn == nil {
		return
	}

	body, err := json.Marshal(eventEnvelope{Subject: subject, Payload: payload, SentAt: p.now().UTC()})
	if err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to encode event")
		return
	}

	if err := p.conn.Publish(subject, body); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}
