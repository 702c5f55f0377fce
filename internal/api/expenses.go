package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/spltr3/spltr3/internal/ledger"
	"github.com/spltr3/spltr3/internal/middleware"
	"github.com/spltr3/spltr3/internal/models"
)

type shareInput struct {
	UserID string `json:"user_id"`

	// Value is the raw share: a percentage for percentage splits, an
	// amount for exact splits, ignored for equal splits. Order matters:
	// the last entry absorbs the rounding residual.
	Value decimal.Decimal `json:"value"`
}

type expenseRequest struct {
	PayerID     string           `json:"payer_id"`
	Description string           `json:"description"`
	Total       decimal.Decimal  `json:"total"`
	SplitType   models.SplitType `json:"split_type"`
	Notes       string           `json:"notes"`
	Shares      []shareInput     `json:"shares"`
}

// buildExpense validates a request against the group and runs the
// reconciler, producing a persistable expense whose share amounts sum to
// the total exactly.
func buildExpense(group *models.Group, req *expenseRequest) (*models.Expense, error) {
	if req.Description == "" {
		return nil, errors.New("description is required")
	}
	if !req.SplitType.Valid() {
		return nil, ledger.ErrUnknownSplitType
	}
	if !group.HasMember(req.PayerID) {
		return nil, fmt.Errorf("payer %s is not a group member", req.PayerID)
	}

	seen := make(map[string]bool, len(req.Shares))
	values := make([]decimal.Decimal, len(req.Shares))
	for i, sh := range req.Shares {
		if !group.HasMember(sh.UserID) {
			return nil, fmt.Errorf("participant %s is not a group member", sh.UserID)
		}
		if seen[sh.UserID] {
			return nil, fmt.Errorf("participant %s appears more than once", sh.UserID)
		}
		seen[sh.UserID] = true
		values[i] = sh.Value
	}

	if err := ledger.ValidateShares(req.Total, values, len(req.Shares), req.SplitType); err != nil {
		return nil, err
	}
	amounts, err := ledger.Reconcile(req.Total, values, req.SplitType)
	if err != nil {
		return nil, err
	}

	shares := make([]models.Share, len(req.Shares))
	for i, sh := range req.Shares {
		shares[i] = models.Share{UserID: sh.UserID, Value: sh.Value, Amount: amounts[i]}
	}

	return &models.Expense{
		GroupID:     group.ID,
		PayerID:     req.PayerID,
		Description: req.Description,
		Total:       req.Total,
		Currency:    group.Currency,
		SplitType:   req.SplitType,
		Shares:      shares,
		Notes:       req.Notes,
	}, nil
}

func expenseSummary(e *models.Expense) string {
	return fmt.Sprintf("%s (%s %s)", e.Description, e.Total.StringFixed(2), e.Currency)
}

// handleCreateExpense records a new expense with reconciled allocations.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	expense, err := buildExpense(group, &req)
	if err != nil {
		slog.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		respondError(w, http.StatusBadRequest, err)
		return
	}
	expense.CreatedBy = middleware.GetUserID(r.Context())

	if err := s.store.CreateExpense(r.Context(), expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", group.ID, "error", err)
		respondStoreError(w, err)
		return
	}

	middleware.ExpensesCreated.Inc()
	s.recordActivity(r, group.ID, models.VerbCreated, models.ObjectExpense, expense.ID, expenseSummary(expense))
	slog.Info("expense created", "expense_id", expense.ID, "group_id", group.ID, "total", expense.Total)
	respondJSON(w, http.StatusCreated, expense)
}

// handleListExpenses lists a group's expenses, newest first.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}

	expenses, err := s.store.ListExpensesByGroup(r.Context(), group.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", group.ID, "error", err)
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"expenses": expenses})
}

// getMemberExpense loads an expense and checks the caller can see it.
func (s *Server) getMemberExpense(w http.ResponseWriter, r *http.Request) (*models.Expense, *models.Group, bool) {
	expense, err := s.store.GetExpense(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return nil, nil, false
	}
	group, ok := s.requireGroupMember(w, r, expense.GroupID)
	if !ok {
		return nil, nil, false
	}
	return expense, group, true
}

// handleGetExpense retrieves one expense with its allocations.
func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, _, ok := s.getMemberExpense(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

// handleUpdateExpense rewrites an expense, re-running reconciliation on the
// new shares.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	existing, group, ok := s.getMemberExpense(w, r)
	if !ok {
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	expense, err := buildExpense(group, &req)
	if err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", existing.ID, "error", err)
		respondError(w, http.StatusBadRequest, err)
		return
	}
	expense.ID = existing.ID
	expense.CreatedBy = existing.CreatedBy
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(r.Context(), expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		respondStoreError(w, err)
		return
	}

	s.recordActivity(r, group.ID, models.VerbUpdated, models.ObjectExpense, expense.ID, expenseSummary(expense))
	respondJSON(w, http.StatusOK, expense)
}

// handleDeleteExpense removes an expense from the ledger.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	expense, group, ok := s.getMemberExpense(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteExpense(r.Context(), expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		respondStoreError(w, err)
		return
	}

	s.recordActivity(r, group.ID, models.VerbDeleted, models.ObjectExpense, expense.ID, expenseSummary(expense))
	respondJSON(w, http.StatusNoContent, nil)
}
