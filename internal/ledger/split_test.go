package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spltr3/spltr3/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decs(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ss))
	for i, s := range ss {
		out[i] = dec(s)
	}
	return out
}

func requireAllocations(t *testing.T, got []decimal.Decimal, want ...string) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.True(t, got[i].Equal(dec(w)), "allocation %d: got %s, want %s", i, got[i], w)
	}
}

func sum(ds []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		total     string
		shares    []decimal.Decimal
		splitType models.SplitType
		want      []string
		wantErr   error
	}{
		{
			name:      "equal split with residual on last",
			total:     "10.00",
			shares:    decs("0", "0", "0"),
			splitType: models.SplitEqual,
			want:      []string{"3.33", "3.33", "3.34"},
		},
		{
			name:      "equal split that divides evenly",
			total:     "90.00",
			shares:    decs("0", "0", "0"),
			splitType: models.SplitEqual,
			want:      []string{"30.00", "30.00", "30.00"},
		},
		{
			name:      "percentage split with residual on last",
			total:     "10.00",
			shares:    decs("33.33", "33.33", "33.34"),
			splitType: models.SplitPercentage,
			// 10.00 - round(3.333) - round(3.333) = 3.34
			want: []string{"3.33", "3.33", "3.34"},
		},
		{
			name:      "percentage residual can be negative drift",
			total:     "0.03",
			shares:    decs("50", "50"),
			splitType: models.SplitPercentage,
			// round(0.015) = 0.02, last gets 0.01
			want: []string{"0.02", "0.01"},
		},
		{
			name:      "exact split passes through",
			total:     "100.00",
			shares:    decs("25.00", "25.00", "50.00"),
			splitType: models.SplitExact,
			want:      []string{"25.00", "25.00", "50.00"},
		},
		{
			name:      "single participant gets the full total",
			total:     "7.77",
			shares:    decs("100"),
			splitType: models.SplitPercentage,
			want:      []string{"7.77"},
		},
		{
			name:      "empty shares rejected",
			total:     "10.00",
			shares:    nil,
			splitType: models.SplitEqual,
			wantErr:   ErrNoShares,
		},
		{
			name:      "unknown split type rejected",
			total:     "10.00",
			shares:    decs("0", "0"),
			splitType: models.SplitType("weighted"),
			wantErr:   ErrUnknownSplitType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reconcile(dec(tt.total), tt.shares, tt.splitType)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			requireAllocations(t, got, tt.want...)
			assert.True(t, sum(got).Equal(dec(tt.total)), "allocations must sum to total exactly, got %s", sum(got))
		})
	}
}

func TestReconcileExactSumInvariant(t *testing.T) {
	// Awkward totals and participant counts that do not divide evenly.
	totals := []string{"0.01", "0.10", "1.00", "9.99", "10.00", "33.33", "100.01", "12345.67"}
	for _, total := range totals {
		for n := 1; n <= 7; n++ {
			shares := make([]decimal.Decimal, n)
			got, err := Reconcile(dec(total), shares, models.SplitEqual)
			require.NoError(t, err)
			require.True(t, sum(got).Equal(dec(total)),
				"total=%s n=%d: sum %s != total", total, n, sum(got))
		}
	}
}

func TestReconcileOrderSensitivity(t *testing.T) {
	total := dec("10.00")

	first, err := Reconcile(total, decs("33.33", "33.33", "33.34"), models.SplitPercentage)
	require.NoError(t, err)

	reordered, err := Reconcile(total, decs("33.34", "33.33", "33.33"), models.SplitPercentage)
	require.NoError(t, err)

	// The last position absorbs the drift in both orders, so moving the
	// 33.34 share to the front changes who gets the adjusted remainder.
	requireAllocations(t, first, "3.33", "3.33", "3.34")
	requireAllocations(t, reordered, "3.33", "3.33", "3.34")
	assert.True(t, sum(reordered).Equal(total))
}

func TestReconcileIdempotent(t *testing.T) {
	total := dec("55.55")
	shares := decs("10", "20", "30", "40")

	first, err := Reconcile(total, shares, models.SplitPercentage)
	require.NoError(t, err)
	second, err := Reconcile(total, shares, models.SplitPercentage)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Equal(second[i]))
	}
}

func TestValidateShares(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		shares       []decimal.Decimal
		participants int
		splitType    models.SplitType
		wantErr      error
	}{
		{
			name:         "valid percentage shares",
			total:        "10.00",
			shares:       decs("33.33", "33.33", "33.34"),
			participants: 3,
			splitType:    models.SplitPercentage,
		},
		{
			name:         "percentages within tolerance",
			total:        "10.00",
			shares:       decs("33.33", "33.33", "33.33"),
			participants: 3,
			splitType:    models.SplitPercentage,
		},
		{
			name:         "percentages beyond tolerance",
			total:        "10.00",
			shares:       decs("50", "40"),
			participants: 2,
			splitType:    models.SplitPercentage,
			wantErr:      ErrUnbalancedShares,
		},
		{
			name:         "negative percentage rejected",
			total:        "10.00",
			shares:       decs("110", "-10"),
			participants: 2,
			splitType:    models.SplitPercentage,
			wantErr:      ErrUnbalancedShares,
		},
		{
			name:         "exact shares match total",
			total:        "100.00",
			shares:       decs("25.00", "25.00", "50.00"),
			participants: 3,
			splitType:    models.SplitExact,
		},
		{
			name:         "exact shares off by more than a cent",
			total:        "100.00",
			shares:       decs("25.00", "25.00", "49.00"),
			participants: 3,
			splitType:    models.SplitExact,
			wantErr:      ErrUnbalancedShares,
		},
		{
			name:         "share count mismatch",
			total:        "10.00",
			shares:       decs("50", "50"),
			participants: 3,
			splitType:    models.SplitPercentage,
			wantErr:      ErrShareCountMismatch,
		},
		{
			name:         "zero total rejected",
			total:        "0",
			shares:       decs("0", "0"),
			participants: 2,
			splitType:    models.SplitEqual,
			wantErr:      ErrInvalidTotal,
		},
		{
			name:         "negative total rejected",
			total:        "-5.00",
			shares:       decs("0", "0"),
			participants: 2,
			splitType:    models.SplitEqual,
			wantErr:      ErrInvalidTotal,
		},
		{
			name:         "sub-cent total rejected",
			total:        "10.001",
			shares:       decs("0", "0"),
			participants: 2,
			splitType:    models.SplitEqual,
			wantErr:      ErrInvalidTotal,
		},
		{
			name:         "equal split ignores share values",
			total:        "10.00",
			shares:       decs("999", "-5"),
			participants: 2,
			splitType:    models.SplitEqual,
		},
		{
			name:         "unknown split type",
			total:        "10.00",
			shares:       decs("50", "50"),
			participants: 2,
			splitType:    models.SplitType("itemized"),
			wantErr:      ErrUnknownSplitType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShares(dec(tt.total), tt.shares, tt.participants, tt.splitType)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
