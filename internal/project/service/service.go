// Package service implements the project and application workflows:
// permission gating, entity state transitions, persistence with explicit
// version threading, and outcome notifications.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/greenroomhq/greenroom/internal/docstore"
	apperrors "github.com/greenroomhq/greenroom/internal/errors"
	"github.com/greenroomhq/greenroom/internal/notify"
	"github.com/greenroomhq/greenroom/internal/project"
	"github.com/greenroomhq/greenroom/internal/project/application"
	"github.com/greenroomhq/greenroom/internal/transport"
)

// Store is the typed persistence surface the services depend on.
type Store interface {
	GetProject(ctx context.Context, name string) (project.Project, error)
	PutProject(ctx context.Context, p project.Project) (project.Project, error)
	RemoveProject(ctx context.Context, name string, version docstore.Version) error
	ListProjects(ctx context.Context) ([]project.Project, error)
	ListProjectsByAuthor(ctx context.Context, authorID string) ([]project.Project, error)
	ListProjectsPending(ctx context.Context) ([]project.Project, error)

	GetApplication(ctx context.Context, id string) (application.Application, error)
	PutApplication(ctx context.Context, a application.Application) (application.Application, error)
	RemoveApplication(ctx context.Context, id string, version docstore.Version) error
	ListApplicationsByProject(ctx context.Context, projectID string) ([]application.Application, error)
}

// Deps carries the collaborators shared by both services. Zero-value
// optional fields get safe defaults.
type Deps struct {
	Store Store
	Sink  notify.Sink
	Names transport.Directory

	// Clock overrides the timestamp source; nil means time.Now.
	Clock func() time.Time
	// AllowSelfActions disables the self-action guard so a single account
	// can exercise the whole workflow. Meant for local debugging only.
	AllowSelfActions bool
}

func (d Deps) withDefaults() Deps {
	if d.Sink == nil {
		d.Sink = notify.Discard{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d
}

// projectNotFound maps a missing project onto the domain taxonomy.
func projectNotFound(name string, cause error) error {
	return &apperrors.Error{
		Code:     apperrors.CodeNotFound,
		Message:  "project not found",
		Metadata: map[string]string{"project": name},
		Cause:    cause,
	}
}

func applicationNotFound(id string, cause error) error {
	return &apperrors.Error{
		Code:     apperrors.CodeNotFound,
		Message:  "application not found",
		Metadata: map[string]string{"application": id},
		Cause:    cause,
	}
}

// writeConflict maps a duplicate create or stale-version write. The actor
// is told the change is already in progress and must re-issue the command;
// the services never retry on their behalf.
func writeConflict(entity, id string, cause error) error {
	return &apperrors.Error{
		Code:     apperrors.CodeConflict,
		Message:  entity + " write conflict",
		Metadata: map[string]string{entity: id},
		Cause:    cause,
	}
}

func mapProjectReadErr(err error, name string) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return projectNotFound(name, err)
	}
	return apperrors.Wrap(apperrors.CodeUnknown, "load project", err)
}

func mapProjectWriteErr(err error, name string) error {
	switch {
	case errors.Is(err, docstore.ErrConflict):
		return writeConflict("project", name, err)
	case errors.Is(err, docstore.ErrNotFound):
		return projectNotFound(name, err)
	}
	return apperrors.Wrap(apperrors.CodeUnknown, "write project", err)
}

func mapApplicationReadErr(err error, id string) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return applicationNotFound(id, err)
	}
	return apperrors.Wrap(apperrors.CodeUnknown, "load application", err)
}

func mapApplicationWriteErr(err error, id string) error {
	switch {
	case errors.Is(err, docstore.ErrConflict):
		return writeConflict("application", id, err)
	case errors.Is(err, docstore.ErrNotFound):
		return applicationNotFound(id, err)
	}
	return apperrors.Wrap(apperrors.CodeUnknown, "write application", err)
}
