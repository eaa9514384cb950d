package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type capturePublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (p *capturePublisher) publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return p.err
}

func newTestSink(p *capturePublisher, opts ...Option) *Sink {
	s := New(nil, nil, opts...)
	s.publish = p.publish
	return s
}

func TestSendPublishesEnvelope(t *testing.T) {
	t.Parallel()

	sentAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	pub := &capturePublisher{}
	s := newTestSink(pub, WithClock(func() time.Time { return sentAt }))

	s.Send(context.Background(), "user1", "hello there")

	if len(pub.subjects) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.subjects))
	}
	if got, want := pub.subjects[0], DefaultSubjectPrefix+"user1"; got != want {
		t.Fatalf("subject = %q, want %q", got, want)
	}

	var got envelope
	if err := json.Unmarshal(pub.payloads[0], &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.ID == "" {
		t.Fatal("envelope id is empty")
	}
	if got.RecipientID != "user1" || got.Content != "hello there" {
		t.Fatalf("envelope = %+v", got)
	}
	if !got.SentAt.Equal(sentAt) {
		t.Fatalf("sentAt = %v, want %v", got.SentAt, sentAt)
	}
}

func TestSendUsesSubjectPrefixOverride(t *testing.T) {
	t.Parallel()

	pub := &capturePublisher{}
	s := newTestSink(pub, WithSubjectPrefix("custom.dm."))

	s.Send(context.Background(), "user1", "hi")

	if got, want := pub.subjects[0], "custom.dm.user1"; got != want {
		t.Fatalf("subject = %q, want %q", got, want)
	}
}

func TestSendSwallowsPublishErrors(t *testing.T) {
	t.Parallel()

	pub := &capturePublisher{err: errors.New("broker down")}
	s := newTestSink(pub)

	s.Send(context.Background(), "user1", "hi")

	if len(pub.subjects) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.subjects))
	}
}

func TestSendDropsOnCancelledContext(t *testing.T) {
	t.Parallel()

	pub := &capturePublisher{}
	s := newTestSink(pub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Send(ctx, "user1", "hi")

	if len(pub.subjects) != 0 {
		t.Fatalf("published %d messages, want 0", len(pub.subjects))
	}
}
