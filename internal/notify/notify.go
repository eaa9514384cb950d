// Package notify delivers outcome messages to actors. Delivery is
// best-effort: sinks never block command handling and swallow transport
// failures after logging them.
package notify

import "context"

// Sink sends a rendered message to a single recipient.
type Sink interface {
	Send(ctx context.Context, recipientID, content string)
}

// Discard is a Sink that drops every message.
type Discard struct{}

func (Discard) Send(context.Context, string, string) {}

// Fanout sends each message to every wrapped sink in order.
type Fanout []Sink

func (f Fanout) Send(ctx context.Context, recipientID, content string) {
	for _, s := range f {
		s.Send(ctx, recipientID, content)
	}
}
