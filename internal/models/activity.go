package models

// Activity verbs. The object type tells the reader what the ID refers to.
const (
	VerbCreated   = "created"
	VerbUpdated   = "updated"
	VerbDeleted   = "deleted"
	VerbCompleted = "completed"
	VerbCanceled  = "canceled"
	VerbJoined    = "joined"
	VerbLeft      = "left"
)

// Activity object types.
const (
	ObjectExpense    = "expense"
	ObjectSettlement = "settlement"
	ObjectGroup      = "group"
	ObjectMember     = "member"
)

// Activity is one entry in a group's feed: who did what to which object.
type Activity struct {
	ID         string `json:"id"`
	GroupID    string `json:"group_id"`
	ActorID    string `json:"actor_id"`
	Verb       string `json:"verb"`
	ObjectType string `json:"object_type"`
	ObjectID   string `json:"object_id"`

	// Summary is a short human-readable line, e.g. "Groceries ($42.10)".
	Summary string `json:"summary,omitempty"`

	CreatedAt int64 `json:"created_at"`
}
