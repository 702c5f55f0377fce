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

// CreateSettlement persists a new settlement.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = now
	}
	settlement.UpdatedAt = now

	var note interface{}
	if settlement.Note != "" {
		note = settlement.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, payer_id, payee_id, amount, currency, method, status, note, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.PayerID, settlement.PayeeID,
		settlement.Amount.String(), settlement.Currency,
		string(settlement.Method), string(settlement.Status), note,
		settlement.CreatedBy, settlement.CreatedAt, settlement.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, id string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var amount string
	var note sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, payer_id, payee_id, amount, currency, method, status, note, created_by, created_at, updated_at
		 FROM settlements WHERE id = ?`,
		id,
	).Scan(&settlement.ID, &settlement.GroupID, &settlement.PayerID, &settlement.PayeeID,
		&amount, &settlement.Currency,
		(*string)(&settlement.Method), (*string)(&settlement.Status), &note,
		&settlement.CreatedBy, &settlement.CreatedAt, &settlement.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settlement %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	if settlement.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	if note.Valid {
		settlement.Note = note.String
	}
	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest
// first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, payer_id, payee_id, amount, currency, method, status, note, created_by, created_at, updated_at
		 FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var amount string
		var note sql.NullString

		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.PayerID, &settlement.PayeeID,
			&amount, &settlement.Currency,
			(*string)(&settlement.Method), (*string)(&settlement.Status), &note,
			&settlement.CreatedBy, &settlement.CreatedAt, &settlement.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if settlement.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		if note.Valid {
			settlement.Note = note.String
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// TransitionSettlement moves a settlement from one status to another. The
// transition is guarded in SQL so concurrent completes/cancels cannot both
// win; losing callers get ErrConflict.
func (s *SQLiteStore) TransitionSettlement(ctx context.Context, id string, from, to models.SettlementStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		string(to), time.Now().Unix(), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to transition settlement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish missing from mis-stated.
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM settlements WHERE id = ?", id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("settlement %s: %w", id, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check settlement existence: %w", err)
		}
		return fmt.Errorf("settlement %s is not %s: %w", id, from, storage.ErrConflict)
	}
	return nil
}
