package models

// User is a registered account, provisioned on first authenticated request
// from the claims of a verified token.
type User struct {
	// ID is the subject claim from the identity service (UUID format).
	ID string `json:"id"`

	// Email is the user's email address (unique).
	Email string `json:"email"`

	// DisplayName is the name shown to other group members.
	DisplayName string `json:"display_name"`

	// CreatedAt is the Unix timestamp when the user row was first created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last claims refresh.
	UpdatedAt int64 `json:"updated_at"`
}
