// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/spltr3/spltr3/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write loses to the record's current
	// state, e.g. transitioning a settlement out of a terminal status.
	ErrConflict = errors.New("conflicting state")
)

// Store defines the persistence operations the API layer depends on.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the handlers.
type Store interface {
	// UpsertUser creates the user row or refreshes email/display name.
	UpsertUser(ctx context.Context, user *models.User) error
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group with its creator as first member.
	// ID and CreatedAt are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error
	// GetGroup retrieves a group by ID, members included.
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	// UpdateGroup updates a group's name and currency.
	UpdateGroup(ctx context.Context, group *models.Group) error
	// DeleteGroup removes a group and everything scoped to it.
	DeleteGroup(ctx context.Context, id string) error
	// ListGroupsByUser retrieves all groups the user is a member of.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)
	// AddGroupMember adds a user to a group; adding an existing member is
	// a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error
	// RemoveGroupMember removes a user from a group.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// CreateExpense persists an expense and its ordered shares.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// GetExpense retrieves an expense with shares in stored order.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	// UpdateExpense rewrites an expense and replaces its shares atomically.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	// DeleteExpense removes an expense and its shares.
	DeleteExpense(ctx context.Context, id string) error
	// ListExpensesByGroup retrieves a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// CreateSettlement persists a settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, id string) (*models.Settlement, error)
	// ListSettlementsByGroup retrieves a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
	// TransitionSettlement moves a settlement from one status to another.
	// Returns ErrConflict if the settlement is not currently in from.
	TransitionSettlement(ctx context.Context, id string, from, to models.SettlementStatus) error

	// CreateInvite persists an invite.
	CreateInvite(ctx context.Context, invite *models.Invite) error
	// GetInvite retrieves an invite by ID.
	GetInvite(ctx context.Context, id string) (*models.Invite, error)
	// ListInvitesByGroup retrieves a group's invites, newest first.
	ListInvitesByGroup(ctx context.Context, groupID string) ([]*models.Invite, error)
	// TransitionInvite moves an invite from one status to another.
	// Returns ErrConflict if the invite is not currently in from.
	TransitionInvite(ctx context.Context, id string, from, to models.InviteStatus) error

	// AppendActivity records a feed entry.
	AppendActivity(ctx context.Context, activity *models.Activity) error
	// ListActivityByGroup retrieves a group's feed, newest first.
	ListActivityByGroup(ctx context.Context, groupID string, limit int) ([]*models.Activity, error)
	// ListActivityByUser retrieves the feed across all groups the user
	// belongs to, newest first.
	ListActivityByUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error)

	// Close releases any resources held by the store.
	Close() error
}
