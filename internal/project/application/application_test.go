package application

import (
	"errors"
	"testing"
)

func TestCreateApplicationDerivesCompositeID(t *testing.T) {
	t.Parallel()

	app, err := CreateApplication(CreateApplicationInput{
		ProjectID: "demo",
		AuthorID:  "user1",
		Bio:       "  I test things  ",
	})
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	if app.ID != "demo-user1" {
		t.Fatalf("expected composite id demo-user1, got %q", app.ID)
	}
	if app.Accepted {
		t.Fatal("expected new application pending")
	}
	if app.Bio != "I test things" {
		t.Fatalf("expected trimmed bio, got %q", app.Bio)
	}
}

func TestCreateApplicationValidates(t *testing.T) {
	t.Parallel()

	if _, err := CreateApplication(CreateApplicationInput{AuthorID: "u"}); !errors.Is(err, ErrEmptyProjectID) {
		t.Fatalf("expected ErrEmptyProjectID, got %v", err)
	}
	if _, err := CreateApplication(CreateApplicationInput{ProjectID: "demo"}); !errors.Is(err, ErrEmptyAuthor) {
		t.Fatalf("expected ErrEmptyAuthor, got %v", err)
	}
}

func TestSplitIDUsesLastDash(t *testing.T) {
	t.Parallel()

	// Project names may themselves contain dashes; applicant ids do not.
	projectID, authorID, err := SplitID("my-cool-project-user1")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if projectID != "my-cool-project" || authorID != "user1" {
		t.Fatalf("unexpected split %q / %q", projectID, authorID)
	}
}

func TestSplitIDRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", "nodash", "-leading", "trailing-"} {
		if _, _, err := SplitID(id); !errors.Is(err, ErrMalformedID) {
			t.Fatalf("id %q: expected ErrMalformedID, got %v", id, err)
		}
	}
}
