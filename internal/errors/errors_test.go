package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := New(CodeConflict, "project demo already exists")
	if !errors.Is(err, New(CodeConflict, "different message")) {
		t.Fatal("expected match by code")
	}
	if errors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("expected mismatch for different code")
	}
}

func TestCodeOfTraversesWrappedChain(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotApproved, "project demo is not approved")
	wrapped := fmt.Errorf("apply: %w", inner)
	if got := CodeOf(wrapped); got != CodeNotApproved {
		t.Fatalf("expected NOT_APPROVED, got %s", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected UNKNOWN for plain error, got %s", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk gone")
	err := Wrap(CodeUnknown, "load project", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected unwrap to reach cause")
	}
}

func TestMetadataOf(t *testing.T) {
	t.Parallel()

	err := WithMetadata(CodeValidation, "bad arity", map[string]string{"usage": "!project add <NAME>"})
	meta := MetadataOf(fmt.Errorf("dispatch: %w", err))
	if meta["usage"] != "!project add <NAME>" {
		t.Fatalf("expected usage metadata, got %v", meta)
	}
	if MetadataOf(errors.New("plain")) != nil {
		t.Fatal("expected nil metadata for plain error")
	}
}

func TestSilentCodes(t *testing.T) {
	t.Parallel()

	if !CodeModeratorOnly.Silent() {
		t.Fatal("moderator-only denials must be silent")
	}
	if CodeForbidden.Silent() {
		t.Fatal("forbidden denials must be surfaced")
	}
}
