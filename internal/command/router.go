package command

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/greenroomhq/greenroom/internal/errors"
	"github.com/greenroomhq/greenroom/internal/notify"
	"github.com/greenroomhq/greenroom/internal/notify/render"
	"github.com/greenroomhq/greenroom/internal/platform/metrics"
	"github.com/greenroomhq/greenroom/internal/project"
	"github.com/greenroomhq/greenroom/internal/project/policy"
	"github.com/greenroomhq/greenroom/internal/project/service"
	"github.com/greenroomhq/greenroom/internal/transport"
)

// Router dispatches inbound messages to the workflow services. It is the
// single boundary translating taxonomy errors into actor notifications;
// a failure in one command never affects another.
type Router struct {
	prefix       string
	projects     *service.ProjectService
	applications *service.ApplicationService
	roles        transport.RoleChecker
	names        transport.Directory
	sink         notify.Sink
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	logger       *slog.Logger
}

// Config wires a Router. Prefix, both services, and the sink are required;
// the rest defaults to no-ops.
type Config struct {
	Prefix       string
	Projects     *service.ProjectService
	Applications *service.ApplicationService
	Roles        transport.RoleChecker
	Names        transport.Directory
	Sink         notify.Sink
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// NewRouter builds a Router from its wiring.
func NewRouter(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := cfg.Sink
	if sink == nil {
		sink = notify.Discard{}
	}
	return &Router{
		prefix:       cfg.Prefix,
		projects:     cfg.Projects,
		applications: cfg.Applications,
		roles:        cfg.Roles,
		names:        cfg.Names,
		sink:         sink,
		metrics:      cfg.Metrics,
		tracer:       otel.Tracer("greenroom/internal/command"),
		logger:       logger,
	}
}

// Handle processes one inbound message end to end. Messages without the
// command prefix and unknown commands are ignored.
func (r *Router) Handle(ctx context.Context, msg transport.Message) {
	content := strings.TrimSpace(msg.Content)
	var text string
	switch {
	case content == strings.TrimSpace(r.prefix):
		// Bare prefix, no command. Parse maps this to help.
	case strings.HasPrefix(content, r.prefix):
		text = strings.TrimSpace(strings.TrimPrefix(content, r.prefix))
	default:
		return
	}

	actor := policy.Actor{ID: msg.ActorID}
	if r.roles != nil {
		moderator, err := r.roles.IsModerator(ctx, msg.ActorID)
		if err != nil {
			r.logger.WarnContext(ctx, "resolve moderator role", "actor", msg.ActorID, "error", err)
		}
		actor.Moderator = moderator
	}

	intent, err := Parse(text)
	if errors.Is(err, ErrUnknownCommand) {
		return
	}

	ctx, span := r.tracer.Start(ctx, "command."+intent.Command,
		trace.WithAttributes(
			attribute.String("command.name", intent.Command),
			attribute.String("command.actor", actor.ID),
		))
	defer span.End()

	if err == nil {
		if entry, ok := Lookup(intent.Command); ok && entry.Moderator() && !actor.Moderator {
			err = apperrors.New(apperrors.CodeModeratorOnly, intent.Command+" requires moderator")
		}
	}
	if err == nil {
		err = r.dispatch(ctx, actor, intent)
	}

	outcome := "ok"
	if err != nil {
		span.RecordError(err)
		code := apperrors.CodeOf(err)
		if code.Silent() {
			outcome = "denied"
		} else {
			outcome = "error"
			r.sink.Send(ctx, actor.ID, r.errorCopy(ctx, err))
		}
		r.logger.InfoContext(ctx, "command failed",
			"command", intent.Command, "actor", actor.ID, "code", string(code), "error", err)
	}
	r.metrics.ObserveCommand(intent.Command, outcome)
}

func (r *Router) dispatch(ctx context.Context, actor policy.Actor, intent Intent) error {
	switch intent.Command {
	case "help":
		r.sink.Send(ctx, actor.ID, HelpText(r.prefix, actor.Moderator))
		return nil
	case "add":
		_, err := r.projects.Create(ctx, actor, intent.Word, intent.Tail, intent.URL)
		return err
	case "list":
		return r.list(ctx, actor, intent.Word)
	case "about":
		p, err := r.projects.Get(ctx, intent.Word)
		if err != nil {
			return err
		}
		r.sink.Send(ctx, actor.ID, AboutText(ctx, r.names, p))
		return nil
	case "remove":
		return r.projects.Remove(ctx, actor, intent.Word)
	case "approve":
		return r.projects.Approve(ctx, actor, intent.Word)
	case "unapprove":
		return r.projects.Unapprove(ctx, actor, intent.Word)
	case "close":
		return r.projects.SetClosed(ctx, actor, intent.Word, true)
	case "open":
		return r.projects.SetClosed(ctx, actor, intent.Word, false)
	case "apply":
		_, err := r.applications.Apply(ctx, actor, intent.Word, intent.Tail)
		return err
	case "optout":
		return r.applications.OptOut(ctx, actor, intent.Word)
	case "accept":
		return r.applications.Accept(ctx, actor, intent.Word)
	case "decline":
		return r.applications.Decline(ctx, actor, intent.Word)
	}
	return nil
}

func (r *Router) list(ctx context.Context, actor policy.Actor, scope string) error {
	switch scope {
	case "":
		projects, err := r.projects.List(ctx)
		if err != nil {
			return err
		}
		if !actor.Moderator {
			projects = visibleProjects(projects)
		}
		r.sink.Send(ctx, actor.ID, ListTable(ctx, r.names, projects, actor.Moderator))
		return nil
	case "mine":
		projects, err := r.projects.ListMine(ctx, actor.ID)
		if err != nil {
			return err
		}
		r.sink.Send(ctx, actor.ID, MineTable(projects))
		return nil
	case "pending":
		if !actor.Moderator {
			return apperrors.New(apperrors.CodeModeratorOnly, "list pending requires moderator")
		}
		projects, err := r.projects.ListPending(ctx)
		if err != nil {
			return err
		}
		r.sink.Send(ctx, actor.ID, ListTable(ctx, r.names, projects, true))
		return nil
	}
	entry, _ := Lookup("list")
	return usageError(entry)
}

// visibleProjects keeps the projects a regular actor may browse: approved
// and open ones.
func visibleProjects(projects []project.Project) []project.Project {
	out := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		if p.ApprovalState.Approved() && !p.Closed {
			out = append(out, p)
		}
	}
	return out
}

// errorCopy maps a taxonomy error onto the catalog message shown to the
// invoking actor.
func (r *Router) errorCopy(ctx context.Context, err error) string {
	meta := apperrors.MetadataOf(err)
	if usage := meta["usage"]; usage != "" {
		return render.ErrParse(usage)
	}
	switch apperrors.CodeOf(err) {
	case apperrors.CodeNotFound:
		return render.ErrNotFound()
	case apperrors.CodeConflict:
		return render.ErrConflict()
	case apperrors.CodeForbidden:
		return render.ErrForbidden()
	case apperrors.CodeSelfAction:
		return render.ErrSelfAction()
	case apperrors.CodeAlreadyApproved:
		moderator := transport.DisplayNameOrID(ctx, r.names, meta["moderator"])
		return render.ErrAlreadyApproved(meta["project"], moderator)
	case apperrors.CodeAlreadyInState:
		return render.ErrAlreadyInState(meta["project"])
	case apperrors.CodeNotApproved:
		return render.ErrNotApproved(meta["project"])
	case apperrors.CodeClosed:
		return render.ErrClosed(meta["project"])
	case apperrors.CodeValidation, apperrors.CodeParse:
		return render.ErrValidation(err.Error())
	}
	return render.ErrUnknown()
}
