package models

import "github.com/shopspring/decimal"

// SplitType is the method used to divide an expense's total among its
// participants.
type SplitType string

const (
	// SplitEqual divides the total evenly across all participants.
	SplitEqual SplitType = "equal"

	// SplitPercentage divides the total by per-participant percentages
	// that sum to 100.
	SplitPercentage SplitType = "percentage"

	// SplitExact uses per-participant dollar amounts that sum to the total.
	SplitExact SplitType = "exact"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitPercentage, SplitExact:
		return true
	}
	return false
}

// Expense is a shared cost paid by one member on behalf of several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"group_id"`

	// PayerID is the member who paid the full amount up front.
	PayerID string `json:"payer_id"`

	// Description is the human-readable label (e.g., "Groceries").
	Description string `json:"description"`

	// Total is the full expense amount, positive, at most 2 decimal places.
	Total decimal.Decimal `json:"total"`

	// Currency is the ISO 4217 code, copied from the group at write time.
	Currency string `json:"currency"`

	// SplitType determines how Total was divided among Shares.
	SplitType SplitType `json:"split_type"`

	// Shares are the per-participant allocations in the order the caller
	// supplied them. Order matters: the last share absorbed any rounding
	// drift, so reordering would change cent-level assignment.
	Shares []Share `json:"shares"`

	// Notes is an optional free-form note.
	Notes string `json:"notes,omitempty"`

	// CreatedBy is the member who recorded the expense.
	CreatedBy string `json:"created_by"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Share is one participant's slice of an expense.
type Share struct {
	// UserID identifies the participant.
	UserID string `json:"user_id"`

	// Value is the raw share as supplied: a percentage for percentage
	// splits, a dollar amount for exact splits, zero for equal splits.
	Value decimal.Decimal `json:"value"`

	// Amount is the reconciled allocation in currency units. The amounts
	// of an expense's shares sum to its Total exactly.
	Amount decimal.Decimal `json:"amount"`
}

// ShareAmounts returns the allocated amounts in share order.
func (e *Expense) ShareAmounts() []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(e.Shares))
	for i, s := range e.Shares {
		amounts[i] = s.Amount
	}
	return amounts
}
