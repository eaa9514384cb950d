package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/greenroomhq/greenroom/internal/docstore"
	"github.com/greenroomhq/greenroom/internal/docstore/memory"
	"github.com/greenroomhq/greenroom/internal/project"
	"github.com/greenroomhq/greenroom/internal/project/application"
)

func newStore() *Store {
	return New(memory.New())
}

func seedProject(t *testing.T, s *Store, name, authorID string) project.Project {
	t.Helper()
	p, err := s.PutProject(context.Background(), project.Project{
		ID:        name,
		URL:       "https://x.io",
		AuthorID:  authorID,
		CreatedAt: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed project %s: %v", name, err)
	}
	return p
}

func TestProjectRoundTripPreservesFields(t *testing.T) {
	t.Parallel()

	s := newStore()
	created := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	p, err := s.PutProject(context.Background(), project.Project{
		ID:            "demo",
		URL:           "https://x.io",
		Description:   "spacing   preserved",
		TesterCount:   2,
		AuthorID:      "user-1",
		ApprovalState: project.ApprovalState{ApprovedBy: "mod-1"},
		Closed:        true,
		CreatedAt:     created,
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if p.Version == 0 {
		t.Fatal("expected version set after put")
	}

	got, err := s.GetProject(context.Background(), "demo")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "spacing   preserved" {
		t.Fatalf("description mangled: %q", got.Description)
	}
	if got.TesterCount != 2 || !got.Closed || got.ApprovalState.ApprovedBy != "mod-1" {
		t.Fatalf("fields did not round-trip: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("createdAt did not round-trip: %v", got.CreatedAt)
	}
	if got.Version != p.Version {
		t.Fatalf("expected version %d, got %d", p.Version, got.Version)
	}
}

func TestPutProjectConflictOnStaleVersion(t *testing.T) {
	t.Parallel()

	s := newStore()
	p := seedProject(t, s, "demo", "user-1")

	first := p
	first.TesterCount = 1
	if _, err := s.PutProject(context.Background(), first); err != nil {
		t.Fatalf("first update: %v", err)
	}

	stale := p
	stale.Closed = true
	if _, err := s.PutProject(context.Background(), stale); !errors.Is(err, docstore.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestProjectQueries(t *testing.T) {
	t.Parallel()

	s := newStore()
	seedProject(t, s, "alpha", "user-1")
	seedProject(t, s, "beta", "user-2")
	approved := seedProject(t, s, "gamma", "user-1")
	approved.ApprovalState.ApprovedBy = "mod-1"
	if _, err := s.PutProject(context.Background(), approved); err != nil {
		t.Fatalf("approve gamma: %v", err)
	}

	mine, err := s.ListProjectsByAuthor(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list by author: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 projects for user-1, got %d", len(mine))
	}

	pending, err := s.ListProjectsPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending projects, got %d", len(pending))
	}

	all, err := s.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(all))
	}
}

func TestApplicationLifecycle(t *testing.T) {
	t.Parallel()

	s := newStore()
	a, err := s.PutApplication(context.Background(), application.Application{
		ID:        application.CompositeID("demo", "user2"),
		ProjectID: "demo",
		AuthorID:  "user2",
		Bio:       "keen tester",
	})
	if err != nil {
		t.Fatalf("put application: %v", err)
	}

	// The composite id is the duplicate-application guard.
	if _, err := s.PutApplication(context.Background(), application.Application{
		ID:        application.CompositeID("demo", "user2"),
		ProjectID: "demo",
		AuthorID:  "user2",
	}); !errors.Is(err, docstore.ErrConflict) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}

	byProject, err := s.ListApplicationsByProject(context.Background(), "demo")
	if err != nil {
		t.Fatalf("list by project: %v", err)
	}
	if len(byProject) != 1 || byProject[0].AuthorID != "user2" {
		t.Fatalf("unexpected listing %v", byProject)
	}

	if err := s.RemoveApplication(context.Background(), a.ID, a.Version); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.GetApplication(context.Background(), a.ID); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected not found after remove, got %v", err)
	}
}
