// Package transport defines the narrow contracts between the workflow
// engine and the chat transport that carries commands and identities.
package transport

import "context"

// Message is one inbound chat line addressed to the bot.
type Message struct {
	// ActorID identifies the author of the message.
	ActorID string
	// Content is the raw text, including the command prefix.
	Content string
}

// RoleChecker resolves an actor's moderator flag. The transport owns role
// membership; the engine only ever asks this one question.
type RoleChecker interface {
	IsModerator(ctx context.Context, actorID string) (bool, error)
}

// Directory resolves display names for rendering. Implementations are
// best-effort; callers fall back to the raw id on empty results.
type Directory interface {
	DisplayName(ctx context.Context, actorID string) string
}

// DisplayNameOrID resolves a display name through dir, falling back to the
// actor id when dir is nil or has no answer.
func DisplayNameOrID(ctx context.Context, dir Directory, actorID string) string {
	if dir == nil {
		return actorID
	}
	if name := dir.DisplayName(ctx, actorID); name != "" {
		return name
	}
	return actorID
}
