package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// CodeParse indicates malformed command text.
	CodeParse Code = "PARSE"
	// CodeValidation indicates a bad argument shape, charset, or URL.
	CodeValidation Code = "VALIDATION"
	// CodeNotFound indicates the target entity is absent.
	CodeNotFound Code = "NOT_FOUND"
	// CodeConflict indicates a duplicate create or a stale-version write.
	CodeConflict Code = "CONFLICT"
	// CodeForbidden indicates the actor lacks owner or moderator rights.
	// Forbidden failures are surfaced to the actor.
	CodeForbidden Code = "FORBIDDEN"
	// CodeModeratorOnly indicates the actor lacks moderator rights.
	// ModeratorOnly failures are denied silently so moderator-gated
	// commands are not revealed.
	CodeModeratorOnly Code = "MODERATOR_ONLY"
	// CodeSelfAction indicates an actor acting on their own entity.
	CodeSelfAction Code = "SELF_ACTION"
	// CodeAlreadyApproved indicates approval of an approved project.
	CodeAlreadyApproved Code = "ALREADY_APPROVED"
	// CodeAlreadyInState indicates a close/open no-op transition.
	CodeAlreadyInState Code = "ALREADY_IN_STATE"
	// CodeNotApproved indicates an application against an unapproved project.
	CodeNotApproved Code = "NOT_APPROVED"
	// CodeClosed indicates an application against a closed project.
	CodeClosed Code = "CLOSED"
)

// Silent reports whether failures with this code are swallowed at the
// command boundary instead of being surfaced to the invoking actor.
func (c Code) Silent() bool {
	return c == CodeModeratorOnly
}
