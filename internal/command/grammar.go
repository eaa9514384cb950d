// Package command parses chat text into typed intents and dispatches them
// to the workflow services. The grammar is a static table; usage strings
// and the help output derive from it so command copy has a single source.
package command

import "strings"

// Role is the minimum role a grammar entry demands before dispatch.
type Role int

const (
	// RoleAny admits every actor.
	RoleAny Role = iota
	// RoleModerator admits moderators only; denials are silent.
	RoleModerator
)

// Shape encodes the argument pattern of a command.
type Shape int

const (
	// ShapeNone takes no arguments.
	ShapeNone Shape = iota
	// ShapeWord takes exactly one bare token.
	ShapeWord
	// ShapeOptionalWord takes zero or one bare token.
	ShapeOptionalWord
	// ShapeWordTail takes one token plus a free-text tail with internal
	// spaces preserved.
	ShapeWordTail
	// ShapeWordTailURL takes one token, a free-text middle, and a trailing
	// URL token.
	ShapeWordTailURL
)

// Entry describes one command: its shape, required role, and help copy.
type Entry struct {
	Name  string
	Shape Shape
	Role  Role
	Args  []string
	About string
}

// Usage derives the usage string shown on arity violations.
func (e Entry) Usage() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	placeholders := make([]string, len(e.Args))
	for i, arg := range e.Args {
		placeholders[i] = "<" + arg + ">"
	}
	return e.Name + " " + strings.Join(placeholders, " ")
}

// Moderator reports whether the entry is gated to moderators.
func (e Entry) Moderator() bool {
	return e.Role == RoleModerator
}

// Grammar lists every command in help-table order.
var Grammar = []Entry{
	{Name: "help", Shape: ShapeNone, About: "show this message"},
	{Name: "list", Shape: ShapeOptionalWord, Args: []string{"mine|pending"}, About: "list projects looking for testers"},
	{Name: "about", Shape: ShapeWord, Args: []string{"name"}, About: "show details about a project"},
	{Name: "add", Shape: ShapeWordTailURL, Args: []string{"name", "description", "url"}, About: "submit a project for approval"},
	{Name: "remove", Shape: ShapeWord, Args: []string{"name"}, About: "remove a project and its applications"},
	{Name: "close", Shape: ShapeWord, Args: []string{"name"}, About: "stop accepting applications"},
	{Name: "open", Shape: ShapeWord, Args: []string{"name"}, About: "start accepting applications again"},
	{Name: "apply", Shape: ShapeWordTail, Args: []string{"name", "bio"}, About: "apply to test a project"},
	{Name: "optout", Shape: ShapeWord, Args: []string{"name"}, About: "withdraw from a project"},
	{Name: "accept", Shape: ShapeWord, Args: []string{"applicationId"}, About: "accept an applicant to your project"},
	{Name: "decline", Shape: ShapeWord, Args: []string{"applicationId"}, About: "decline an applicant"},
	{Name: "approve", Shape: ShapeWord, Role: RoleModerator, Args: []string{"name"}, About: "approve a submitted project"},
	{Name: "unapprove", Shape: ShapeWord, Role: RoleModerator, Args: []string{"name"}, About: "send a project back to review"},
}

var grammarByName = func() map[string]Entry {
	byName := make(map[string]Entry, len(Grammar))
	for _, e := range Grammar {
		byName[e.Name] = e
	}
	return byName
}()

// Lookup finds the grammar entry for a command token. Command tokens are
// case-sensitive.
func Lookup(name string) (Entry, bool) {
	e, ok := grammarByName[name]
	return e, ok
}
