package command

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/greenroomhq/greenroom/internal/docstore/memory"
	"github.com/greenroomhq/greenroom/internal/project/service"
	"github.com/greenroomhq/greenroom/internal/project/storage"
	"github.com/greenroomhq/greenroom/internal/transport"
)

const prefix = "!gr "

type recorderSink struct {
	mu       sync.Mutex
	messages map[string][]string
}

func newRecorderSink() *recorderSink {
	return &recorderSink{messages: make(map[string][]string)}
}

func (r *recorderSink) Send(_ context.Context, recipientID, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[recipientID] = append(r.messages[recipientID], content)
}

func (r *recorderSink) sent(recipientID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages[recipientID]...)
}

type rolesMap map[string]bool

func (m rolesMap) IsModerator(_ context.Context, actorID string) (bool, error) {
	return m[actorID], nil
}

func newTestRouter(t *testing.T) (*Router, *recorderSink) {
	t.Helper()
	sink := newRecorderSink()
	deps := service.Deps{
		Store: storage.New(memory.New()),
		Sink:  sink,
	}
	router := NewRouter(Config{
		Prefix:       prefix,
		Projects:     service.NewProjectService(deps),
		Applications: service.NewApplicationService(deps),
		Roles:        rolesMap{"mod1": true},
		Sink:         sink,
	})
	return router, sink
}

func handle(router *Router, actorID, text string) {
	router.Handle(context.Background(), transport.Message{ActorID: actorID, Content: text})
}

func TestHandleIgnoresForeignPrefix(t *testing.T) {
	t.Parallel()

	router, sink := newTestRouter(t)
	handle(router, "user1", "!other add demo desc https://x.io")
	if got := sink.sent("user1"); len(got) != 0 {
		t.Fatalf("expected silence for foreign prefix, got %v", got)
	}
}

func TestHandleUnknownCommandIsSilent(t *testing.T) {
	t.Parallel()

	router, sink := newTestRouter(t)
	handle(router, "user1", prefix+"frobnicate demo")
	if got := sink.sent("user1"); len(got) != 0 {
		t.Fatalf("unknown commands must be ignored, got %v", got)
	}
}

func TestHandleBarePrefixRendersHelp(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"!gr", "!gr ", "  !gr  "} {
		router, sink := newTestRouter(t)
		handle(router, "user1", content)
		got := sink.sent("user1")
		if len(got) != 1 || !strings.Contains(got[0], "Commands") {
			t.Fatalf("content %q: expected help output, got %v", content, got)
		}
		if strings.Contains(got[0], "approve") {
			t.Fatalf("content %q: regular actor help leaks moderator commands: %v", content, got)
		}
	}
}

func TestHandleIgnoresPrefixRunOn(t *testing.T) {
	t.Parallel()

	router, sink := newTestRouter(t)
	handle(router, "user1", "!grab demo")
	if got := sink.sent("user1"); len(got) != 0 {
		t.Fatalf("expected silence for run-on prefix, got %v", got)
	}
}

func TestHandleUsageErrorReply(t *testing.T) {
	t.Parallel()

	router, sink := newTestRouter(t)
	handle(router, "user1", prefix+"remove")
	got := sink.sent("user1")
	if len(got) != 1 || !strings.Contains(got[0], "Usage: `remove <name>`") {
		t.Fatalf("expected usage reply, got %v", got)
	}
}

func TestHandleModeratorOnlyDenialIsSilent(t *testing.T) {
	t.Parallel()

	router, sink := newTestRouter(t)
	handle(router, "owner1", prefix+"add demo a demo project https://x.io")
	handle(router, "user1", prefix+"approve demo")
	if got := sink.sent("user1"); len(got) != 0 {
		t.Fatalf("moderator-only denial must not reply, got %v", got)
	}
}

func TestHandleListPendingNonModeratorIsSilent(t *testing.T) {
	t.Parallel()

	router, sink := newTestRouter(t)
	handle(router, "user1", prefix+"list pending")
	if got := sink.sent("user1"); len(got) != 0 {
		t.Fatalf("expected silence, got %v", got)
	}

	handle(router, "mod1", prefix+"list pending")
	if got := sink.sent("mod1"); len(got) != 1 {
		t.Fatalf("moderator should get the pending table, got %v", got)
	}
}

func TestHandleListVisibility(t *testing.T) {
	t.Parallel()

	router, sink := newTestRouter(t)
	handle(router, "owner1", prefix+"add seen its description https://x.io")
	handle(router, "owner1", prefix+"add hidden its description https://x.io")
	handle(router, "mod1", prefix+"approve seen")

	handle(router, "user1", prefix+"list")
	got := sink.sent("user1")
	if len(got) != 1 {
		t.Fatalf("expected one reply, got %v", got)
	}
	if !strings.Contains(got[0], "seen") || strings.Contains(got[0], "hidden") {
		t.Fatalf("regular list must only show approved open projects:\n%s", got[0])
	}

	handle(router, "mod1", prefix+"list")
	modReplies := sink.sent("mod1")
	table := modReplies[len(modReplies)-1]
	if !strings.Contains(table, "hidden") || !strings.Contains(table, "APPROVED") {
		t.Fatalf("moderator list must show everything with review columns:\n%s", table)
	}
}

func TestHandleFullWorkflow(t *testing.T) {
	t.Parallel()

	router, sink := newTestRouter(t)

	handle(router, "owner1", prefix+"add demo a demo project https://x.io")
	handle(router, "user1", prefix+"apply demo hi there")
	// Before approval the applicant is told the project is not approved.
	denied := sink.sent("user1")
	if len(denied) != 1 || !strings.Contains(denied[0], "not been approved") {
		t.Fatalf("expected not-approved reply, got %v", denied)
	}

	handle(router, "mod1", prefix+"approve demo")
	handle(router, "user1", prefix+"apply demo hi there")
	handle(router, "owner1", prefix+"accept demo-user1")
	handle(router, "owner1", prefix+"about demo")

	ownerReplies := sink.sent("owner1")
	about := ownerReplies[len(ownerReplies)-1]
	if !testerCountLine.MatchString(about) || !strings.Contains(about, "TESTERS") {
		t.Fatalf("about should report one tester:\n%s", about)
	}
	if m := testerCountLine.FindStringSubmatch(about); m[1] != "1" {
		t.Fatalf("tester count = %s, want 1:\n%s", m[1], about)
	}

	// The accepted applicant got the join link as its own message.
	gotURL := false
	for _, msg := range sink.sent("user1") {
		if msg == "https://x.io" {
			gotURL = true
		}
	}
	if !gotURL {
		t.Fatalf("applicant never received the project URL: %v", sink.sent("user1"))
	}

	handle(router, "user1", prefix+"optout demo")
	handle(router, "owner1", prefix+"about demo")
	ownerReplies = sink.sent("owner1")
	about = ownerReplies[len(ownerReplies)-1]
	if m := testerCountLine.FindStringSubmatch(about); m == nil || m[1] != "0" {
		t.Fatalf("about should report zero testers after optout:\n%s", about)
	}
}

var testerCountLine = regexp.MustCompile(`TESTERS\s+(\d+)`)
