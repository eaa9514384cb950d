package service

import (
	"context"

	apperrors "github.com/greenroomhq/greenroom/internal/errors"
	"github.com/greenroomhq/greenroom/internal/notify/render"
	"github.com/greenroomhq/greenroom/internal/project"
	"github.com/greenroomhq/greenroom/internal/project/policy"
	"github.com/greenroomhq/greenroom/internal/transport"
)

// ProjectService owns the project lifecycle: creation, moderator review,
// open/closed transitions, and cascading removal.
type ProjectService struct {
	deps Deps
}

// NewProjectService builds a ProjectService with defaulted dependencies.
func NewProjectService(deps Deps) *ProjectService {
	return &ProjectService{deps: deps.withDefaults()}
}

// Create validates and persists a new unapproved, open project, then
// confirms to the actor. A project with the same name already in the store
// fails with Conflict.
func (s *ProjectService) Create(ctx context.Context, actor policy.Actor, name, description, url string) (project.Project, error) {
	p, err := project.CreateProject(project.CreateProjectInput{
		Name:        name,
		Description: description,
		URL:         url,
		AuthorID:    actor.ID,
	}, s.deps.Clock)
	if err != nil {
		return project.Project{}, err
	}

	stored, err := s.deps.Store.PutProject(ctx, p)
	if err != nil {
		return project.Project{}, mapProjectWriteErr(err, p.ID)
	}

	s.deps.Sink.Send(ctx, actor.ID, render.ProjectAdded(stored.ID))
	return stored, nil
}

// Remove deletes a project and purges its applications, notifying each
// voided applicant. The cascade is not atomic: a failed dependent deletion
// is skipped and the parent is still removed.
func (s *ProjectService) Remove(ctx context.Context, actor policy.Actor, name string) error {
	p, err := s.deps.Store.GetProject(ctx, name)
	if err != nil {
		return mapProjectReadErr(err, name)
	}
	if !policy.Can(actor, policy.ActionManage, p.AuthorID) {
		return apperrors.WithMetadata(apperrors.CodeForbidden, "remove requires owner or moderator",
			map[string]string{"project": name})
	}

	apps, err := s.deps.Store.ListApplicationsByProject(ctx, name)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnknown, "list applications", err)
	}
	for _, a := range apps {
		if err := s.deps.Store.RemoveApplication(ctx, a.ID, a.Version); err != nil {
			continue
		}
		s.deps.Sink.Send(ctx, a.AuthorID, render.ProjectVoided(name))
	}

	if err := s.deps.Store.RemoveProject(ctx, name, p.Version); err != nil {
		return mapProjectWriteErr(err, name)
	}

	s.deps.Sink.Send(ctx, actor.ID, render.ProjectRemoved(name))
	if actor.ID != p.AuthorID {
		actorName := transport.DisplayNameOrID(ctx, s.deps.Names, actor.ID)
		s.deps.Sink.Send(ctx, p.AuthorID, render.ProjectRemovedBy(name, actorName))
	}
	return nil
}

// Approve marks an unapproved project as approved by the acting moderator
// and tells the author.
func (s *ProjectService) Approve(ctx context.Context, actor policy.Actor, name string) error {
	if !policy.Can(actor, policy.ActionReview, "") {
		return apperrors.New(apperrors.CodeModeratorOnly, "approve requires moderator")
	}

	p, err := s.deps.Store.GetProject(ctx, name)
	if err != nil {
		return mapProjectReadErr(err, name)
	}
	if actor.ID == p.AuthorID && !s.deps.AllowSelfActions {
		return apperrors.WithMetadata(apperrors.CodeSelfAction, "cannot approve own project",
			map[string]string{"project": name})
	}
	if p.ApprovalState.Approved() {
		return apperrors.WithMetadata(apperrors.CodeAlreadyApproved, "project already approved",
			map[string]string{"project": name, "moderator": p.ApprovalState.ApprovedBy})
	}

	p.ApprovalState.ApprovedBy = actor.ID
	if _, err := s.deps.Store.PutProject(ctx, p); err != nil {
		return mapProjectWriteErr(err, name)
	}

	s.deps.Sink.Send(ctx, actor.ID, render.ProjectApproved(name))
	actorName := transport.DisplayNameOrID(ctx, s.deps.Names, actor.ID)
	s.deps.Sink.Send(ctx, p.AuthorID, render.ProjectApprovedBy(name, actorName))
	return nil
}

// Unapprove resets an approved project back to the review queue.
func (s *ProjectService) Unapprove(ctx context.Context, actor policy.Actor, name string) error {
	if !policy.Can(actor, policy.ActionReview, "") {
		return apperrors.New(apperrors.CodeModeratorOnly, "unapprove requires moderator")
	}

	p, err := s.deps.Store.GetProject(ctx, name)
	if err != nil {
		return mapProjectReadErr(err, name)
	}
	if !p.ApprovalState.Approved() {
		return apperrors.WithMetadata(apperrors.CodeNotApproved, "project is not approved",
			map[string]string{"project": name})
	}

	p.ApprovalState.ApprovedBy = ""
	if _, err := s.deps.Store.PutProject(ctx, p); err != nil {
		return mapProjectWriteErr(err, name)
	}

	s.deps.Sink.Send(ctx, actor.ID, render.ProjectUnapproved(name))
	actorName := transport.DisplayNameOrID(ctx, s.deps.Names, actor.ID)
	s.deps.Sink.Send(ctx, p.AuthorID, render.ProjectUnapprovedBy(name, actorName))
	return nil
}

// SetClosed transitions the open/closed flag. Repeating the current state
// fails with AlreadyInState rather than silently succeeding.
func (s *ProjectService) SetClosed(ctx context.Context, actor policy.Actor, name string, closed bool) error {
	p, err := s.deps.Store.GetProject(ctx, name)
	if err != nil {
		return mapProjectReadErr(err, name)
	}
	if !policy.Can(actor, policy.ActionManage, p.AuthorID) {
		return apperrors.WithMetadata(apperrors.CodeForbidden, "close/open requires owner or moderator",
			map[string]string{"project": name})
	}
	if p.Closed == closed {
		return apperrors.WithMetadata(apperrors.CodeAlreadyInState, "project already in requested state",
			map[string]string{"project": name})
	}

	p.Closed = closed
	if _, err := s.deps.Store.PutProject(ctx, p); err != nil {
		return mapProjectWriteErr(err, name)
	}

	if closed {
		s.deps.Sink.Send(ctx, actor.ID, render.ProjectClosed(name))
	} else {
		s.deps.Sink.Send(ctx, actor.ID, render.ProjectOpened(name))
	}
	if actor.ID != p.AuthorID {
		actorName := transport.DisplayNameOrID(ctx, s.deps.Names, actor.ID)
		if closed {
			s.deps.Sink.Send(ctx, p.AuthorID, render.ProjectClosedBy(name, actorName))
		} else {
			s.deps.Sink.Send(ctx, p.AuthorID, render.ProjectOpenedBy(name, actorName))
		}
	}
	return nil
}

// Get loads one project for display.
func (s *ProjectService) Get(ctx context.Context, name string) (project.Project, error) {
	p, err := s.deps.Store.GetProject(ctx, name)
	if err != nil {
		return project.Project{}, mapProjectReadErr(err, name)
	}
	return p, nil
}

// List returns every project. Visibility filtering is the caller's job.
func (s *ProjectService) List(ctx context.Context) ([]project.Project, error) {
	projects, err := s.deps.Store.ListProjects(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "list projects", err)
	}
	return projects, nil
}

// ListMine returns the projects authored by one actor.
func (s *ProjectService) ListMine(ctx context.Context, actorID string) ([]project.Project, error) {
	projects, err := s.deps.Store.ListProjectsByAuthor(ctx, actorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "list projects by author", err)
	}
	return projects, nil
}

// ListPending returns the projects awaiting review. Callers gate this to
// moderators.
func (s *ProjectService) ListPending(ctx context.Context) ([]project.Project, error) {
	projects, err := s.deps.Store.ListProjectsPending(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "list pending projects", err)
	}
	return projects, nil
}
