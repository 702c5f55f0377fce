package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spltr3/spltr3/internal/models"
)

// AppendActivity records one feed entry.
func (s *SQLiteStore) AppendActivity(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt == 0 {
		activity.CreatedAt = time.Now().Unix()
	}

	var summary interface{}
	if activity.Summary != "" {
		summary = activity.Summary
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (id, group_id, actor_id, verb, object_type, object_id, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.ID, activity.GroupID, activity.ActorID, activity.Verb,
		activity.ObjectType, activity.ObjectID, summary, activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// ListActivityByGroup retrieves a group's feed, newest first.
func (s *SQLiteStore) ListActivityByGroup(ctx context.Context, groupID string, limit int) ([]*models.Activity, error) {
	return s.listActivity(ctx,
		`SELECT id, group_id, actor_id, verb, object_type, object_id, summary, created_at
		 FROM activity WHERE group_id = ?
		 ORDER BY created_at DESC, id LIMIT ?`,
		groupID, activityLimit(limit))
}

// ListActivityByUser retrieves the feed across every group the user belongs
// to, newest first.
func (s *SQLiteStore) ListActivityByUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	return s.listActivity(ctx,
		`SELECT a.id, a.group_id, a.actor_id, a.verb, a.object_type, a.object_id, a.summary, a.created_at
		 FROM activity a
		 JOIN group_members gm ON gm.group_id = a.group_id
		 WHERE gm.user_id = ?
		 ORDER BY a.created_at DESC, a.id LIMIT ?`,
		userID, activityLimit(limit))
}

const defaultActivityLimit = 50

func activityLimit(limit int) int {
	if limit <= 0 {
		return defaultActivityLimit
	}
	return limit
}

func (s *SQLiteStore) listActivity(ctx context.Context, query string, args ...interface{}) ([]*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []*models.Activity
	for rows.Next() {
		entry := &models.Activity{}
		var summary sql.NullString
		if err := rows.Scan(&entry.ID, &entry.GroupID, &entry.ActorID, &entry.Verb,
			&entry.ObjectType, &entry.ObjectID, &summary, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if summary.Valid {
			entry.Summary = summary.String
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}
	return entries, nil
}
