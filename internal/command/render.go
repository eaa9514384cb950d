package command

import (
	"context"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/greenroomhq/greenroom/internal/project"
	"github.com/greenroomhq/greenroom/internal/transport"
)

const createdAtFormat = "01-02 15:04:05"

// mark renders a boolean as the O/X marker used in moderator columns.
func mark(b bool) string {
	if b {
		return "O"
	}
	return "X"
}

func fence(body string) string {
	return "```\n" + body + "```"
}

// HelpText renders the command table. Moderator commands only render for
// moderators so gated commands stay undiscoverable.
func HelpText(prefix string, moderator bool) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, e := range Grammar {
		if e.Moderator() && !moderator {
			continue
		}
		w.Write([]byte(e.Usage() + "\t" + e.About + "\n"))
	}
	w.Flush()
	return "Commands (prefix `" + prefix + "`):\n" + fence(b.String())
}

// ListTable renders projects as an aligned table. Moderators get the
// APPROVED and CLOSED columns on top of the public ones.
func ListTable(ctx context.Context, names transport.Directory, projects []project.Project, moderator bool) string {
	if len(projects) == 0 {
		return "No projects are looking for testers right now."
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	if moderator {
		w.Write([]byte("NAME\tAUTHOR\tTESTERS\tAPPROVED\tCLOSED\n"))
	} else {
		w.Write([]byte("NAME\tAUTHOR\tTESTERS\n"))
	}
	for _, p := range projects {
		author := transport.DisplayNameOrID(ctx, names, p.AuthorID)
		row := p.ID + "\t" + author + "\t" + strconv.Itoa(p.TesterCount)
		if moderator {
			row += "\t" + mark(p.ApprovalState.Approved()) + "\t" + mark(p.Closed)
		}
		w.Write([]byte(row + "\n"))
	}
	w.Flush()
	return fence(b.String())
}

// MineTable renders the caller's own projects with their review state.
func MineTable(projects []project.Project) string {
	if len(projects) == 0 {
		return "You have no projects."
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	w.Write([]byte("NAME\tTESTERS\tAPPROVED\tCLOSED\n"))
	for _, p := range projects {
		w.Write([]byte(p.ID + "\t" + strconv.Itoa(p.TesterCount) + "\t" +
			mark(p.ApprovalState.Approved()) + "\t" + mark(p.Closed) + "\n"))
	}
	w.Flush()
	return fence(b.String())
}

// AboutText renders one project's detail view.
func AboutText(ctx context.Context, names transport.Directory, p project.Project) string {
	author := transport.DisplayNameOrID(ctx, names, p.AuthorID)
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	w.Write([]byte("NAME\t" + p.ID + "\n"))
	w.Write([]byte("OWNER\t" + author + "\n"))
	w.Write([]byte("TESTERS\t" + strconv.Itoa(p.TesterCount) + "\n"))
	w.Write([]byte("CREATED\t" + p.CreatedAt.Format(createdAtFormat) + "\n"))
	w.Flush()
	return fence(b.String()) + "\n" + p.Description
}

