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

// CreateExpense persists an expense and its ordered shares in one
// transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var notes interface{}
	if expense.Notes != "" {
		notes = expense.Notes
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, payer_id, description, total, currency, split_type, notes, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PayerID, expense.Description,
		expense.Total.String(), expense.Currency, string(expense.SplitType),
		notes, expense.CreatedBy, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertShares writes the expense's shares, preserving supplied order via
// the position column. Order is load-bearing: the last position holds the
// rounding residual.
func insertShares(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, sh := range expense.Shares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, position, user_id, value, amount) VALUES (?, ?, ?, ?, ?)",
			expense.ID, i, sh.UserID, sh.Value.String(), sh.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense with its shares in stored order.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense := &models.Expense{}
	var total string
	var notes sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, payer_id, description, total, currency, split_type, notes, created_by, created_at, updated_at
		 FROM expenses WHERE id = ?`,
		id,
	).Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Description,
		&total, &expense.Currency, (*string)(&expense.SplitType), &notes,
		&expense.CreatedBy, &expense.CreatedAt, &expense.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if expense.Total, err = parseAmount(total); err != nil {
		return nil, err
	}
	if notes.Valid {
		expense.Notes = notes.String
	}

	if expense.Shares, err = s.expenseShares(ctx, id); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *SQLiteStore) expenseShares(ctx context.Context, expenseID string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, value, amount FROM expense_shares WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var sh models.Share
		var value, amount string
		if err := rows.Scan(&sh.UserID, &value, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if sh.Value, err = parseAmount(value); err != nil {
			return nil, err
		}
		if sh.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		shares = append(shares, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

// UpdateExpense rewrites an expense row and replaces its shares atomically.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var notes interface{}
	if expense.Notes != "" {
		notes = expense.Notes
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET payer_id = ?, description = ?, total = ?, split_type = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		expense.PayerID, expense.Description, expense.Total.String(),
		string(expense.SplitType), notes, expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear shares: %w", err)
	}
	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense; shares cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ListExpensesByGroup retrieves a group's expenses, newest first, with
// shares loaded.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, payer_id, description, total, currency, split_type, notes, created_by, created_at, updated_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var total string
		var notes sql.NullString
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Description,
			&total, &expense.Currency, (*string)(&expense.SplitType), &notes,
			&expense.CreatedBy, &expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if expense.Total, err = parseAmount(total); err != nil {
			return nil, err
		}
		if notes.Valid {
			expense.Notes = notes.String
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if expense.Shares, err = s.expenseShares(ctx, expense.ID); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}
