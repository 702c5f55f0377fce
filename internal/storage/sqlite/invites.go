package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spltr3/spltr3/internal/models"
	"github.com/spltr3/spltr3/internal/storage"
)

// CreateInvite persists a new invite.
func (s *SQLiteStore) CreateInvite(ctx context.Context, invite *models.Invite) error {
	if invite.ID == "" {
		invite.ID = uuid.New().String()
	}
	if invite.CreatedAt == 0 {
		invite.CreatedAt = time.Now().Unix()
	}
	if invite.Status == "" {
		invite.Status = models.InvitePending
	}

	var email interface{}
	if invite.Email != "" {
		email = invite.Email
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invites (id, group_id, email, invited_by, status, created_at, responded_at)
		 VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		invite.ID, invite.GroupID, email, invite.InvitedBy, string(invite.Status), invite.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invite: %w", err)
	}
	return nil
}

// GetInvite retrieves an invite by ID.
func (s *SQLiteStore) GetInvite(ctx context.Context, id string) (*models.Invite, error) {
	invite := &models.Invite{}
	var email sql.NullString
	var respondedAt sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, email, invited_by, status, created_at, responded_at
		 FROM invites WHERE id = ?`,
		id,
	).Scan(&invite.ID, &invite.GroupID, &email, &invite.InvitedBy,
		(*string)(&invite.Status), &invite.CreatedAt, &respondedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invite %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}

	if email.Valid {
		invite.Email = email.String
	}
	if respondedAt.Valid {
		invite.RespondedAt = respondedAt.Int64
	}
	return invite, nil
}

// ListInvitesByGroup retrieves all invites for a group, newest first.
func (s *SQLiteStore) ListInvitesByGroup(ctx context.Context, groupID string) ([]*models.Invite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, email, invited_by, status, created_at, responded_at
		 FROM invites WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	var invites []*models.Invite
	for rows.Next() {
		invite := &models.Invite{}
		var email sql.NullString
		var respondedAt sql.NullInt64

		if err := rows.Scan(&invite.ID, &invite.GroupID, &email, &invite.InvitedBy,
			(*string)(&invite.Status), &invite.CreatedAt, &respondedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		if email.Valid {
			invite.Email = email.String
		}
		if respondedAt.Valid {
			invite.RespondedAt = respondedAt.Int64
		}
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invites: %w", err)
	}
	return invites, nil
}

// TransitionInvite moves an invite from one status to another, stamping
// responded_at. Returns ErrConflict if the invite already left from.
func (s *SQLiteStore) TransitionInvite(ctx context.Context, id string, from, to models.InviteStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE invites SET status = ?, responded_at = ? WHERE id = ? AND status = ?",
		string(to), time.Now().Unix(), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to transition invite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM invites WHERE id = ?", id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("invite %s: %w", id, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check invite existence: %w", err)
		}
		return fmt.Errorf("invite %s is not %s: %w", id, from, storage.ErrConflict)
	}
	return nil
}
