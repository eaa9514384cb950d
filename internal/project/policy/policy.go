// Package policy provides authorization decisions for project actions.
package policy

// Actor is a command invoker with its transport-resolved moderator flag.
type Actor struct {
	ID        string
	Moderator bool
}

// Action represents a policy decision for a project action.
type Action int

const (
	// ActionManage allows removing, closing, and opening a project.
	// Granted to the project author and to moderators.
	ActionManage Action = iota + 1
	// ActionReview allows approving and unapproving a project.
	// Granted to moderators only.
	ActionReview
	// ActionDecide allows accepting and declining applications.
	// Granted to the project author only.
	ActionDecide
)

// Can reports whether the actor can perform the action on a project owned
// by ownerID.
func Can(actor Actor, action Action, ownerID string) bool {
	switch action {
	case ActionManage:
		return actor.ID == ownerID || actor.Moderator
	case ActionReview:
		return actor.Moderator
	case ActionDecide:
		return actor.ID == ownerID
	default:
		return false
	}
}
