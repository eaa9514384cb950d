// Package render turns workflow outcomes into the chat copy delivered
// through notify sinks. All strings live in the language catalog so the
// copy can be localized without touching the services.
package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func ProjectAdded(name string) string {
	return printer.Sprintf("project.added", name)
}

func ProjectRemoved(name string) string {
	return printer.Sprintf("project.removed", name)
}

// ProjectRemovedBy is sent to the project author when someone else,
// typically a moderator, removes their project.
func ProjectRemovedBy(name, actorName string) string {
	return printer.Sprintf("project.removed_by", name, actorName)
}

// ProjectVoided is sent to applicants whose applications were discarded
// because the project they applied to was removed.
func ProjectVoided(name string) string {
	return printer.Sprintf("project.voided", name)
}

func ProjectApproved(name string) string {
	return printer.Sprintf("project.approved", name)
}

func ProjectApprovedBy(name, moderatorName string) string {
	return printer.Sprintf("project.approved_by", name, moderatorName)
}

func ProjectUnapproved(name string) string {
	return printer.Sprintf("project.unapproved", name)
}

func ProjectUnapprovedBy(name, moderatorName string) string {
	return printer.Sprintf("project.unapproved_by", name, moderatorName)
}

func ProjectClosed(name string) string {
	return printer.Sprintf("project.closed", name)
}

func ProjectClosedBy(name, actorName string) string {
	return printer.Sprintf("project.closed_by", name, actorName)
}

func ProjectOpened(name string) string {
	return printer.Sprintf("project.opened", name)
}

func ProjectOpenedBy(name, actorName string) string {
	return printer.Sprintf("project.opened_by", name, actorName)
}

func ApplicationSubmitted(projectName string) string {
	return printer.Sprintf("application.applied", projectName)
}

// ApplicationReceived is sent to the project author and includes the
// commands that resolve the pending application.
func ApplicationReceived(applicantName, projectName, bio, applicationID string) string {
	return printer.Sprintf("application.received",
		applicantName, projectName, bio, applicationID, applicationID)
}

func ApplicationAccepted(applicantName string) string {
	return printer.Sprintf("application.accepted", applicantName)
}

func ApplicationAcceptedApplicant(projectName string) string {
	return printer.Sprintf("application.accepted_applicant", projectName)
}

func ApplicationDeclined(applicantName string) string {
	return printer.Sprintf("application.declined", applicantName)
}

func ApplicationDeclinedApplicant(projectName string) string {
	return printer.Sprintf("application.declined_applicant", projectName)
}

func OptedOut(projectName string) string {
	return printer.Sprintf("application.opted_out", projectName)
}

func OptedOutAuthor(actorName, projectName string) string {
	return printer.Sprintf("application.opted_out_author", actorName, projectName)
}

func ErrNotFound() string {
	return printer.Sprintf("error.not_found")
}

func ErrConflict() string {
	return printer.Sprintf("error.conflict")
}

func ErrForbidden() string {
	return printer.Sprintf("error.forbidden")
}

func ErrSelfAction() string {
	return printer.Sprintf("error.self_action")
}

func ErrAlreadyApproved(name, moderatorName string) string {
	return printer.Sprintf("error.already_approved", name, moderatorName)
}

func ErrAlreadyInState(name string) string {
	return printer.Sprintf("error.already_in_state", name)
}

func ErrNotApproved(name string) string {
	return printer.Sprintf("error.not_approved", name)
}

func ErrClosed(name string) string {
	return printer.Sprintf("error.closed", name)
}

func ErrValidation(detail string) string {
	return printer.Sprintf("error.validation", detail)
}

func ErrParse(usage string) string {
	return printer.Sprintf("error.parse", usage)
}

func ErrUnknown() string {
	return printer.Sprintf("error.unknown")
}
