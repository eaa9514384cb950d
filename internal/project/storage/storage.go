// Package storage maps project and application entities onto the generic
// document store. It is the only code that touches raw documents; field
// names in the stored bodies match the persisted schema exactly.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/greenroomhq/greenroom/internal/docstore"
	"github.com/greenroomhq/greenroom/internal/project"
	"github.com/greenroomhq/greenroom/internal/project/application"
)

// Collection names in the backing document store.
const (
	CollectionProjects     = "projects"
	CollectionApplications = "applications"
)

// Store provides typed reads and compare-and-swap writes for both entities.
type Store struct {
	projects     docstore.Collection
	applications docstore.Collection
}

// New wraps a document store with typed entity access.
func New(backing docstore.Store) *Store {
	return &Store{
		projects:     backing.Collection(CollectionProjects),
		applications: backing.Collection(CollectionApplications),
	}
}

// GetProject loads one project by name.
func (s *Store) GetProject(ctx context.Context, name string) (project.Project, error) {
	doc, err := s.projects.Get(ctx, name)
	if err != nil {
		return project.Project{}, err
	}
	return decodeProject(doc)
}

// PutProject persists a project. A zero version creates; otherwise the write
// succeeds only if p.Version still matches the stored revision.
func (s *Store) PutProject(ctx context.Context, p project.Project) (project.Project, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return project.Project{}, fmt.Errorf("encode project %s: %w", p.ID, err)
	}
	version, err := s.projects.Put(ctx, docstore.Document{ID: p.ID, Version: p.Version, Body: body})
	if err != nil {
		return project.Project{}, err
	}
	p.Version = version
	return p, nil
}

// RemoveProject deletes a project at the presented version.
func (s *Store) RemoveProject(ctx context.Context, name string, version docstore.Version) error {
	return s.projects.Remove(ctx, name, version)
}

// ListProjects returns every project.
func (s *Store) ListProjects(ctx context.Context) ([]project.Project, error) {
	docs, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeProjects(docs)
}

// ListProjectsByAuthor returns the projects created by one author.
func (s *Store) ListProjectsByAuthor(ctx context.Context, authorID string) ([]project.Project, error) {
	docs, err := s.projects.QueryByField(ctx, "authorId", authorID)
	if err != nil {
		return nil, err
	}
	return decodeProjects(docs)
}

// ListProjectsPending returns the projects awaiting moderator approval.
func (s *Store) ListProjectsPending(ctx context.Context) ([]project.Project, error) {
	docs, err := s.projects.QueryByField(ctx, "approvalState.approvedBy", "")
	if err != nil {
		return nil, err
	}
	return decodeProjects(docs)
}

// GetApplication loads one application by composite id.
func (s *Store) GetApplication(ctx context.Context, id string) (application.Application, error) {
	doc, err := s.applications.Get(ctx, id)
	if err != nil {
		return application.Application{}, err
	}
	return decodeApplication(doc)
}

// PutApplication persists an application with the same versioning rules as
// PutProject.
func (s *Store) PutApplication(ctx context.Context, a application.Application) (application.Application, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return application.Application{}, fmt.Errorf("encode application %s: %w", a.ID, err)
	}
	version, err := s.applications.Put(ctx, docstore.Document{ID: a.ID, Version: a.Version, Body: body})
	if err != nil {
		return application.Application{}, err
	}
	a.Version = version
	return a, nil
}

// RemoveApplication deletes an application at the presented version.
func (s *Store) RemoveApplication(ctx context.Context, id string, version docstore.Version) error {
	return s.applications.Remove(ctx, id, version)
}

// ListApplicationsByProject returns every application against one project.
func (s *Store) ListApplicationsByProject(ctx context.Context, projectID string) ([]application.Application, error) {
	docs, err := s.applications.QueryByField(ctx, "projectId", projectID)
	if err != nil {
		return nil, err
	}
	out := make([]application.Application, 0, len(docs))
	for _, doc := range docs {
		decoded, err := decodeApplication(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

func decodeProject(doc docstore.Document) (project.Project, error) {
	var p project.Project
	if err := json.Unmarshal(doc.Body, &p); err != nil {
		return project.Project{}, fmt.Errorf("decode project %s: %w", doc.ID, err)
	}
	p.Version = doc.Version
	return p, nil
}

func decodeProjects(docs []docstore.Document) ([]project.Project, error) {
	out := make([]project.Project, 0, len(docs))
	for _, doc := range docs {
		decoded, err := decodeProject(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

func decodeApplication(doc docstore.Document) (application.Application, error) {
	var a application.Application
	if err := json.Unmarshal(doc.Body, &a); err != nil {
		return application.Application{}, fmt.Errorf("decode application %s: %w", doc.ID, err)
	}
	a.Version = doc.Version
	return a, nil
}
