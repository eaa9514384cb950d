// Package nats publishes notifications over a NATS connection. One
// message is published per recipient; delivery is fire and forget and
// publish failures are logged rather than surfaced to callers.
package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/greenroomhq/greenroom/internal/platform/id"
	"github.com/greenroomhq/greenroom/internal/platform/metrics"
)

// DefaultSubjectPrefix is prepended to the recipient id to form the
// publish subject.
const DefaultSubjectPrefix = "greenroom.notify."

type envelope struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	SentAt      time.Time `json:"sentAt"`
}

// Sink delivers notifications as JSON messages on per-recipient subjects.
type Sink struct {
	subjectPrefix string
	logger        *slog.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
	publish       func(subject string, data []byte) error
}

// Option configures a Sink.
type Option func(*Sink)

// WithSubjectPrefix overrides the publish subject prefix.
func WithSubjectPrefix(prefix string) Option {
	return func(s *Sink) { s.subjectPrefix = prefix }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) { s.now = now }
}

// WithMetrics records delivery outcomes on the given registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sink) { s.metrics = m }
}

// New builds a Sink on top of an established connection. The connection
// is owned by the caller.
func New(conn *nats.Conn, logger *slog.Logger, opts ...Option) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sink{
		subjectPrefix: DefaultSubjectPrefix,
		logger:        logger,
		now:           time.Now,
		publish:       conn.Publish,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send publishes one notification. Errors are logged and dropped so a
// broker outage never fails the command that produced the message.
func (s *Sink) Send(ctx context.Context, recipientID, content string) {
	if err := ctx.Err(); err != nil {
		s.logger.WarnContext(ctx, "notification dropped", "recipient", recipientID, "error", err)
		s.metrics.ObserveNotification("dropped")
		return
	}
	messageID, err := id.NewID()
	if err != nil {
		s.logger.ErrorContext(ctx, "generate notification id", "recipient", recipientID, "error", err)
		s.metrics.ObserveNotification("error")
		return
	}
	payload, err := json.Marshal(envelope{
		ID:          messageID,
		RecipientID: recipientID,
		Content:     content,
		SentAt:      s.now().UTC(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "encode notification", "recipient", recipientID, "error", err)
		s.metrics.ObserveNotification("error")
		return
	}
	if err := s.publish(s.subjectPrefix+recipientID, payload); err != nil {
		s.logger.WarnContext(ctx, "publish notification", "recipient", recipientID, "error", err)
		s.metrics.ObserveNotification("error")
		return
	}
	s.metrics.ObserveNotification("sent")
}
