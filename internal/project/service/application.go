package service

import (
	"context"

	apperrors "github.com/greenroomhq/greenroom/internal/errors"
	"github.com/greenroomhq/greenroom/internal/notify/render"
	"github.com/greenroomhq/greenroom/internal/project/application"
	"github.com/greenroomhq/greenroom/internal/project/policy"
	"github.com/greenroomhq/greenroom/internal/transport"
)

// ApplicationService owns the application lifecycle and its cross-entity
// coupling to projects: approval and closed gating on apply, tester count
// bookkeeping on accept and optout.
type ApplicationService struct {
	deps Deps
}

// NewApplicationService builds an ApplicationService with defaulted
// dependencies.
func NewApplicationService(deps Deps) *ApplicationService {
	return &ApplicationService{deps: deps.withDefaults()}
}

// Apply files a pending application against an approved, open project and
// notifies both the applicant and the project author. The author's message
// carries the accept and decline commands for this application.
func (s *ApplicationService) Apply(ctx context.Context, actor policy.Actor, projectName, bio string) (application.Application, error) {
	p, err := s.deps.Store.GetProject(ctx, projectName)
	if err != nil {
		return application.Application{}, mapProjectReadErr(err, projectName)
	}
	if actor.ID == p.AuthorID && !s.deps.AllowSelfActions {
		return application.Application{}, apperrors.WithMetadata(apperrors.CodeSelfAction,
			"cannot apply to own project", map[string]string{"project": projectName})
	}
	if !p.ApprovalState.Approved() {
		return application.Application{}, apperrors.WithMetadata(apperrors.CodeNotApproved,
			"project is not approved", map[string]string{"project": projectName})
	}
	if p.Closed {
		return application.Application{}, apperrors.WithMetadata(apperrors.CodeClosed,
			"project is closed", map[string]string{"project": projectName})
	}

	a, err := application.CreateApplication(application.CreateApplicationInput{
		ProjectID: projectName,
		AuthorID:  actor.ID,
		Bio:       bio,
	})
	if err != nil {
		return application.Application{}, err
	}

	stored, err := s.deps.Store.PutApplication(ctx, a)
	if err != nil {
		return application.Application{}, mapApplicationWriteErr(err, a.ID)
	}

	s.deps.Sink.Send(ctx, actor.ID, render.ApplicationSubmitted(projectName))
	applicantName := transport.DisplayNameOrID(ctx, s.deps.Names, actor.ID)
	s.deps.Sink.Send(ctx, p.AuthorID, render.ApplicationReceived(applicantName, projectName, stored.Bio, stored.ID))
	return stored, nil
}

// Accept marks an application accepted and counts the applicant as a
// tester. The project write lands before the application write; if the
// second write conflicts the first one stands and the actor is told to
// re-issue the command.
func (s *ApplicationService) Accept(ctx context.Context, actor policy.Actor, applicationID string) error {
	projectName, applicantID, err := application.SplitID(applicationID)
	if err != nil {
		return err
	}

	p, err := s.deps.Store.GetProject(ctx, projectName)
	if err != nil {
		return mapProjectReadErr(err, projectName)
	}
	if !policy.Can(actor, policy.ActionDecide, p.AuthorID) {
		return apperrors.WithMetadata(apperrors.CodeForbidden, "accept requires project author",
			map[string]string{"project": projectName})
	}

	a, err := s.deps.Store.GetApplication(ctx, applicationID)
	if err != nil {
		return mapApplicationReadErr(err, applicationID)
	}
	if a.Accepted {
		return apperrors.WithMetadata(apperrors.CodeAlreadyInState, "application already accepted",
			map[string]string{"project": projectName})
	}

	p.TesterCount++
	if _, err := s.deps.Store.PutProject(ctx, p); err != nil {
		return mapProjectWriteErr(err, projectName)
	}

	a.Accepted = true
	if _, err := s.deps.Store.PutApplication(ctx, a); err != nil {
		return mapApplicationWriteErr(err, applicationID)
	}

	applicantName := transport.DisplayNameOrID(ctx, s.deps.Names, applicantID)
	s.deps.Sink.Send(ctx, actor.ID, render.ApplicationAccepted(applicantName))
	s.deps.Sink.Send(ctx, applicantID, render.ApplicationAcceptedApplicant(projectName))
	s.deps.Sink.Send(ctx, applicantID, p.URL)
	return nil
}

// Decline removes a pending application without touching the tester count
// and notifies both parties.
func (s *ApplicationService) Decline(ctx context.Context, actor policy.Actor, applicationID string) error {
	projectName, applicantID, err := application.SplitID(applicationID)
	if err != nil {
		return err
	}

	p, err := s.deps.Store.GetProject(ctx, projectName)
	if err != nil {
		return mapProjectReadErr(err, projectName)
	}
	if !policy.Can(actor, policy.ActionDecide, p.AuthorID) {
		return apperrors.WithMetadata(apperrors.CodeForbidden, "decline requires project author",
			map[string]string{"project": projectName})
	}

	a, err := s.deps.Store.GetApplication(ctx, applicationID)
	if err != nil {
		return mapApplicationReadErr(err, applicationID)
	}
	if err := s.deps.Store.RemoveApplication(ctx, a.ID, a.Version); err != nil {
		return mapApplicationWriteErr(err, applicationID)
	}

	applicantName := transport.DisplayNameOrID(ctx, s.deps.Names, applicantID)
	s.deps.Sink.Send(ctx, actor.ID, render.ApplicationDeclined(applicantName))
	s.deps.Sink.Send(ctx, applicantID, render.ApplicationDeclinedApplicant(projectName))
	return nil
}

// OptOut withdraws the actor's own application. An accepted application
// releases its tester slot; the project counter write must land before the
// application is removed.
func (s *ApplicationService) OptOut(ctx context.Context, actor policy.Actor, projectName string) error {
	id := application.CompositeID(projectName, actor.ID)
	a, err := s.deps.Store.GetApplication(ctx, id)
	if err != nil {
		return mapApplicationReadErr(err, id)
	}

	p, err := s.deps.Store.GetProject(ctx, projectName)
	if err != nil {
		return mapProjectReadErr(err, projectName)
	}

	if a.Accepted && p.TesterCount > 0 {
		p.TesterCount--
		if _, err := s.deps.Store.PutProject(ctx, p); err != nil {
			return mapProjectWriteErr(err, projectName)
		}
	}

	if err := s.deps.Store.RemoveApplication(ctx, a.ID, a.Version); err != nil {
		return mapApplicationWriteErr(err, id)
	}

	s.deps.Sink.Send(ctx, actor.ID, render.OptedOut(projectName))
	actorName := transport.DisplayNameOrID(ctx, s.deps.Names, actor.ID)
	s.deps.Sink.Send(ctx, p.AuthorID, render.OptedOutAuthor(actorName, projectName))
	return nil
}
