// Package ledger holds the pure money arithmetic: split reconciliation and
// balance projection. Nothing here touches storage or the network.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/spltr3/spltr3/internal/models"
)

var (
	// ErrNoShares is returned when a split is attempted with no participants.
	ErrNoShares = errors.New("at least one share is required")

	// ErrShareCountMismatch is returned when the number of supplied shares
	// does not equal the number of participants.
	ErrShareCountMismatch = errors.New("share count does not match participant count")

	// ErrInvalidTotal is returned for totals that are not positive or carry
	// more than 2 fractional digits.
	ErrInvalidTotal = errors.New("total must be positive with at most 2 decimal places")

	// ErrUnbalancedShares is returned when percentages do not sum to 100 or
	// exact amounts do not sum to the total, beyond a 0.01 tolerance.
	ErrUnbalancedShares = errors.New("shares do not add up")

	// ErrUnknownSplitType is returned for split types this package does not
	// recognize.
	ErrUnknownSplitType = errors.New("unknown split type")
)

var (
	hundred   = decimal.NewFromInt(100)
	tolerance = decimal.RequireFromString("0.01")
)

// Reconcile distributes total across len(shares) participants according to
// splitType and returns the allocations in share order.
//
// Raw shares are computed as total*share/100 for percentage splits,
// total/N for equal splits (share values ignored), or the share itself for
// exact splits. Every allocation except the last is rounded to 2 decimal
// places; the last participant receives total minus the sum of the others,
// so the result always sums to total exactly and exactly one participant
// absorbs all rounding drift.
//
// Because the last element absorbs the drift, the output is sensitive to
// input order: whichever participant is supplied last gets the remainder.
// Callers must keep share order stable across writes and reads.
//
// Reconcile assumes a pre-validated total and share set (see
// ValidateShares); it only rejects what it cannot work without.
func Reconcile(total decimal.Decimal, shares []decimal.Decimal, splitType models.SplitType) ([]decimal.Decimal, error) {
	n := len(shares)
	if n == 0 {
		return nil, ErrNoShares
	}
	if n == 1 {
		// No rounding possible: the sole participant gets everything.
		return []decimal.Decimal{total}, nil
	}

	raw := make([]decimal.Decimal, n)
	switch splitType {
	case models.SplitEqual:
		per := total.Div(decimal.NewFromInt(int64(n)))
		for i := range raw {
			raw[i] = per
		}
	case models.SplitPercentage:
		for i, pct := range shares {
			raw[i] = total.Mul(pct).Div(hundred)
		}
	case models.SplitExact:
		copy(raw, shares)
	default:
		return nil, ErrUnknownSplitType
	}

	allocated := make([]decimal.Decimal, n)
	assigned := decimal.Zero
	for i := 0; i < n-1; i++ {
		allocated[i] = raw[i].Round(2)
		assigned = assigned.Add(allocated[i])
	}
	allocated[n-1] = total.Sub(assigned)

	return allocated, nil
}

// ValidateShares performs the caller-side checks that must pass before
// Reconcile is invoked: the total is positive with at most 2 fractional
// digits, the share count matches the participant count, and percentage or
// exact shares balance within a 0.01 tolerance (percentages against 100,
// exact amounts against the total). Equal splits carry no share values to
// balance.
func ValidateShares(total decimal.Decimal, shares []decimal.Decimal, participants int, splitType models.SplitType) error {
	if !total.IsPositive() || !total.Round(2).Equal(total) {
		return ErrInvalidTotal
	}
	if len(shares) != participants {
		return ErrShareCountMismatch
	}
	if len(shares) == 0 {
		return ErrNoShares
	}

	switch splitType {
	case models.SplitEqual:
		return nil
	case models.SplitPercentage:
		return checkSum(shares, hundred)
	case models.SplitExact:
		return checkSum(shares, total)
	default:
		return ErrUnknownSplitType
	}
}

func checkSum(shares []decimal.Decimal, want decimal.Decimal) error {
	sum := decimal.Zero
	for _, s := range shares {
		if s.IsNegative() {
			return ErrUnbalancedShares
		}
		sum = sum.Add(s)
	}
	if sum.Sub(want).Abs().GreaterThan(tolerance) {
		return ErrUnbalancedShares
	}
	return nil
}
