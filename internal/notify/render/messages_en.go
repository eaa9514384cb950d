package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	// Project lifecycle
	message.SetString(lang, "project.added", ":ok_hand: :: A new project `%s` has been added to the approval queue")
	message.SetString(lang, "project.removed", ":ok_hand: :: Project `%s` has been removed")
	message.SetString(lang, "project.removed_by", ":scream: :: Your project `%s` has been removed by @%s")
	message.SetString(lang, "project.voided", ":worried: :: The project you have applied to (`%s`) was removed")
	message.SetString(lang, "project.approved", ":thumbsup: :: Project `%s` has been approved")
	message.SetString(lang, "project.approved_by", ":heart_eyes: :: Your project `%s` has been approved by @%s!")
	message.SetString(lang, "project.unapproved", ":thumbsdown: :: Project `%s` has been unapproved")
	message.SetString(lang, "project.unapproved_by", ":fearful: :: Your project `%s` has been unapproved by @%s")
	message.SetString(lang, "project.closed", ":no_entry_sign: :: Project `%s` has been successfully closed")
	message.SetString(lang, "project.closed_by", ":worried: :: Your project `%s` has been closed by @%s")
	message.SetString(lang, "project.opened", ":o: :: Project `%s` has been successfully opened")
	message.SetString(lang, "project.opened_by", ":smile: :: Your project `%s` has been opened by @%s")

	// Application lifecycle
	message.SetString(lang, "application.applied", ":pray: :: You have successfully applied to the project `%s`. The project owner will decide if you get on")
	message.SetString(lang, "application.received", ":information_desk_person: :: @%s has applied to your project `%s` with the message:\n\n%s\n\nUse `accept %s` or `decline %s` to resolve the application")
	message.SetString(lang, "application.accepted", ":smiley: :: You have successfully accepted @%s to your project. The user will be notified")
	message.SetString(lang, "application.accepted_applicant", ":smiley: :: You have been accepted to `%s` by the project owner! You can use the link below to join")
	message.SetString(lang, "application.declined", ":grimacing: :: You have successfully declined the request from @%s. The user will be notified")
	message.SetString(lang, "application.declined_applicant", ":grimacing: :: You have been declined from `%s` by the project owner. Better luck next time")
	message.SetString(lang, "application.opted_out", ":wave: :: You have successfully opted out of the project `%s`. The project owner will be notified")
	message.SetString(lang, "application.opted_out_author", ":wave: :: @%s has opted out of your project `%s`")

	// Failure copy shown back to the invoking actor
	message.SetString(lang, "error.not_found", ":dizzy_face: :: There is no such project or application")
	message.SetString(lang, "error.conflict", ":sweat_smile: :: That change is already in progress, try again")
	message.SetString(lang, "error.forbidden", ":cold_sweat: :: Only the author of the project can use this command")
	message.SetString(lang, "error.self_action", ":thinking: :: Obviously you should not do that to your own project, should you?")
	message.SetString(lang, "error.already_approved", ":thinking: :: Project `%s` was already approved by @%s")
	message.SetString(lang, "error.already_in_state", ":thinking: :: Project `%s` is already in that state")
	message.SetString(lang, "error.not_approved", ":thinking: :: Project `%s` has not been approved yet")
	message.SetString(lang, "error.closed", ":no_entry_sign: :: Project `%s` is closed for applications")
	message.SetString(lang, "error.validation", ":thinking: :: %s")
	message.SetString(lang, "error.parse", ":thinking: :: Usage: `%s`")
	message.SetString(lang, "error.unknown", ":boom: :: Something went wrong, try again later")
}
