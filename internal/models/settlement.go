package models

import "github.com/shopspring/decimal"

// SettlementMethod is how a settlement payment was (or will be) made.
type SettlementMethod string

const (
	// MethodCash records a payment that already happened out of band;
	// the settlement is created completed.
	MethodCash SettlementMethod = "cash"

	// MethodExternal records a payment the payer has initiated through an
	// external channel; the settlement stays pending until the payee
	// confirms receipt.
	MethodExternal SettlementMethod = "external"
)

// Valid reports whether m is a known settlement method.
func (m SettlementMethod) Valid() bool {
	return m == MethodCash || m == MethodExternal
}

// SettlementStatus is a settlement's lifecycle state.
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "pending"
	SettlementCompleted SettlementStatus = "completed"
	SettlementCanceled  SettlementStatus = "canceled"
)

// Terminal reports whether the status permits no further transitions.
func (s SettlementStatus) Terminal() bool {
	return s == SettlementCompleted || s == SettlementCanceled
}

// Settlement is a recorded payment between two members intended to reduce
// an outstanding balance. Lifecycle: created pending or completed depending
// on method; pending transitions to completed or canceled; completed and
// canceled are final.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"group_id"`

	// PayerID is the member who paid (debtor settling up).
	PayerID string `json:"payer_id"`

	// PayeeID is the member who received payment.
	PayeeID string `json:"payee_id"`

	// Amount is the positive payment amount.
	Amount decimal.Decimal `json:"amount"`

	// Currency is the ISO 4217 code, copied from the group at write time.
	Currency string `json:"currency"`

	Method SettlementMethod `json:"method"`
	Status SettlementStatus `json:"status"`

	// Note is an optional description.
	Note string `json:"note,omitempty"`

	// CreatedBy is the member who recorded the settlement.
	CreatedBy string `json:"created_by"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}
