package models

// InviteStatus is an invitation's lifecycle state.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteRevoked  InviteStatus = "revoked"
)

// Invite is a pending offer to join a group. The invite ID doubles as the
// join token embedded in the link shared with the invitee; delivery of that
// link is outside this backend.
type Invite struct {
	// ID is the unique identifier and join token (UUID format).
	ID string `json:"id"`

	// GroupID is the group being joined.
	GroupID string `json:"group_id"`

	// Email is an optional hint of who the invite is for. Acceptance is
	// not restricted to it; possession of the token is what grants entry.
	Email string `json:"email,omitempty"`

	// InvitedBy is the member who created the invite.
	InvitedBy string `json:"invited_by"`

	Status InviteStatus `json:"status"`

	CreatedAt int64 `json:"created_at"`

	// RespondedAt is set when the invite leaves pending.
	RespondedAt int64 `json:"responded_at,omitempty"`
}
