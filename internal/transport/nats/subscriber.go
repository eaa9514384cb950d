// Package nats receives chat commands from a NATS subject and hands them
// to the command router. Each inbound message runs on its own goroutine;
// same-entity races are resolved by the store, not by the transport.
package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/greenroomhq/greenroom/internal/transport"
)

// DefaultSubject is the command subject subscribed to by default.
const DefaultSubject = "greenroom.commands"

// Handler processes one inbound message.
type Handler interface {
	Handle(ctx context.Context, msg transport.Message)
}

// inbound is the wire form of one chat line. The transport edge resolves
// the moderator flag and the display name; the engine never talks to the
// chat platform directly.
type inbound struct {
	ActorID     string `json:"actorId"`
	Content     string `json:"content"`
	Moderator   bool   `json:"moderator"`
	DisplayName string `json:"displayName"`
}

// Subscriber consumes command messages. It doubles as the RoleChecker and
// Directory for the actors it has seen, since the transport already
// resolved both on the way in.
type Subscriber struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger

	mu    sync.RWMutex
	roles map[string]bool
	names map[string]string

	sub *nats.Subscription
	wg  sync.WaitGroup
}

// New builds a Subscriber; an empty subject picks DefaultSubject.
func New(conn *nats.Conn, subject string, logger *slog.Logger) *Subscriber {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{
		conn:    conn,
		subject: subject,
		logger:  logger,
		roles:   make(map[string]bool),
		names:   make(map[string]string),
	}
}

var _ transport.RoleChecker = (*Subscriber)(nil)
var _ transport.Directory = (*Subscriber)(nil)

// IsModerator reports the moderator flag last seen for the actor.
func (s *Subscriber) IsModerator(_ context.Context, actorID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles[actorID], nil
}

// DisplayName reports the display name last seen for the actor, or empty.
func (s *Subscriber) DisplayName(_ context.Context, actorID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names[actorID]
}

// Start subscribes to the command subject and dispatches every decoded
// message to handler on its own goroutine.
func (s *Subscriber) Start(ctx context.Context, handler Handler) error {
	sub, err := s.conn.Subscribe(s.subject, func(msg *nats.Msg) {
		s.handleMessage(ctx, handler, msg.Data)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	return nil
}

// Stop unsubscribes and waits for in-flight commands to finish.
func (s *Subscriber) Stop() error {
	var err error
	if s.sub != nil {
		err = s.sub.Unsubscribe()
	}
	s.wg.Wait()
	return err
}

func (s *Subscriber) handleMessage(ctx context.Context, handler Handler, data []byte) {
	var in inbound
	if err := json.Unmarshal(data, &in); err != nil {
		s.logger.WarnContext(ctx, "decode command message", "error", err)
		return
	}
	if in.ActorID == "" {
		s.logger.WarnContext(ctx, "command message without actor")
		return
	}

	s.mu.Lock()
	s.roles[in.ActorID] = in.Moderator
	if in.DisplayName != "" {
		s.names[in.ActorID] = in.DisplayName
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		handler.Handle(ctx, transport.Message{ActorID: in.ActorID, Content: in.Content})
	}()
}
