package calculator

import (
	"github.com/shopspring/decimal"
)

// ExpenseShare returns the per-person share of a single expense for display:
// round(amount / |participants|). Participants default to the roster names
// when the expense carries no SplitBetween. With nobody to split between the
// full amount is returned.
//
// This is informational only; balances use the group-level share from
// ComputeMemberStats.
func ExpenseShare(amount decimal.Decimal, splitBetween []string, roster []Member) decimal.Decimal {
	n := len(splitBetween)
	if n == 0 {
		n = len(roster)
	}
	if n == 0 {
		return amount
	}
	return round(amount.Div(decimal.NewFromInt(int64(n))))
}

// RosterNames returns the display name of every member, in roster order.
// New expenses default their SplitBetween to this list.
func RosterNames(members []Member) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.DisplayName()
	}
	return names
}
