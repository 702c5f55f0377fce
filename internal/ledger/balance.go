package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/spltr3/spltr3/internal/models"
)

// MemberBalance is one member's position within a scope (usually a group).
type MemberBalance struct {
	UserID string `json:"user_id"`

	// Paid is what the member put in: expense totals they fronted plus
	// settlements they paid out.
	Paid decimal.Decimal `json:"paid"`

	// Owed is what the member consumed: their expense shares plus
	// settlements they received.
	Owed decimal.Decimal `json:"owed"`

	// Net is Paid minus Owed. Positive means the group owes the member.
	Net decimal.Decimal `json:"net"`
}

// Transfer is a suggested payment that reduces outstanding balances.
type Transfer struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// Balances projects net positions from a ledger of expenses and settlements.
// Only completed settlements count; pending and canceled ones do not move
// balances. The result is sorted by user ID for deterministic output.
//
// For each expense the payer is credited the full total and every
// participant is debited their persisted share. For each completed
// settlement the payer is credited and the payee debited.
func Balances(expenses []*models.Expense, settlements []*models.Settlement) []MemberBalance {
	byUser := make(map[string]*MemberBalance)
	get := func(userID string) *MemberBalance {
		b, ok := byUser[userID]
		if !ok {
			b = &MemberBalance{UserID: userID}
			byUser[userID] = b
		}
		return b
	}

	for _, e := range expenses {
		get(e.PayerID).Paid = get(e.PayerID).Paid.Add(e.Total)
		for _, s := range e.Shares {
			get(s.UserID).Owed = get(s.UserID).Owed.Add(s.Amount)
		}
	}

	for _, s := range settlements {
		if s.Status != models.SettlementCompleted {
			continue
		}
		get(s.PayerID).Paid = get(s.PayerID).Paid.Add(s.Amount)
		get(s.PayeeID).Owed = get(s.PayeeID).Owed.Add(s.Amount)
	}

	out := make([]MemberBalance, 0, len(byUser))
	for _, b := range byUser {
		b.Net = b.Paid.Sub(b.Owed)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// Simplify turns net balances into a small set of transfers that would zero
// them out, greedily matching the largest debtor with the largest creditor.
// Transfers below one cent are dropped as noise.
func Simplify(balances []MemberBalance) []Transfer {
	var debtors, creditors []MemberBalance
	for _, b := range balances {
		switch {
		case b.Net.IsNegative():
			debtors = append(debtors, b)
		case b.Net.IsPositive():
			creditors = append(creditors, b)
		}
	}

	// Largest magnitudes first; ties broken by user ID for determinism.
	sort.Slice(debtors, func(i, j int) bool {
		if !debtors[i].Net.Equal(debtors[j].Net) {
			return debtors[i].Net.LessThan(debtors[j].Net)
		}
		return debtors[i].UserID < debtors[j].UserID
	})
	sort.Slice(creditors, func(i, j int) bool {
		if !creditors[i].Net.Equal(creditors[j].Net) {
			return creditors[i].Net.GreaterThan(creditors[j].Net)
		}
		return creditors[i].UserID < creditors[j].UserID
	})

	owe := make([]decimal.Decimal, len(debtors))
	for i, d := range debtors {
		owe[i] = d.Net.Neg()
	}
	due := make([]decimal.Decimal, len(creditors))
	for i, c := range creditors {
		due[i] = c.Net
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(owe[i], due[j])
		if amount.GreaterThanOrEqual(tolerance) {
			transfers = append(transfers, Transfer{
				FromUserID: debtors[i].UserID,
				ToUserID:   creditors[j].UserID,
				Amount:     amount,
			})
		}

		owe[i] = owe[i].Sub(amount)
		due[j] = due[j].Sub(amount)
		if owe[i].LessThan(tolerance) {
			i++
		}
		if due[j].LessThan(tolerance) {
			j++
		}
	}
	return transfers
}
