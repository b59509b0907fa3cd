package calculator

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is one transfer in a settlement plan.
type Transaction struct {
	FromID string // Person who owes
	From   string
	ToID   string // Person who is owed
	To     string
	Amount decimal.Decimal
}

// Plan is the output of Settle.
type Plan struct {
	Transactions []Transaction

	// Residual is the signed sum of balances left unmatched after the sweep.
	// It is zero when the input balances sum to zero and non-zero only from
	// rounding drift in the per-member shares.
	Residual decimal.Decimal
}

// party is a mutable working copy of one member's balance.
type party struct {
	id        string
	name      string
	remaining decimal.Decimal
}

// Settle produces transfers that bring every balance to zero, using greedy
// largest-pair matching: the biggest debtor pays the biggest creditor until
// one of them is settled, then the sweep moves on.
//
// The result has at most debtors+creditors-1 transactions. It is not
// guaranteed to be the global minimum; finding that is a subset-partition
// problem and the greedy sweep is the usual practical answer.
func Settle(stats []MemberStats) Plan {
	var debtors, creditors []*party
	for _, s := range stats {
		switch {
		case s.Balance.IsNegative():
			debtors = append(debtors, &party{id: s.ID, name: s.Name, remaining: s.Balance})
		case s.Balance.IsPositive():
			creditors = append(creditors, &party{id: s.ID, name: s.Name, remaining: s.Balance})
		}
	}

	// Most negative debtor first, most positive creditor first; IDs break ties
	// so the plan does not depend on roster order.
	slices.SortStableFunc(debtors, func(a, b *party) int {
		if c := a.remaining.Cmp(b.remaining); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})
	slices.SortStableFunc(creditors, func(a, b *party) int {
		if c := b.remaining.Cmp(a.remaining); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})

	plan := Plan{Transactions: []Transaction{}, Residual: decimal.Zero}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]

		amount := decimal.Min(debtor.remaining.Neg(), creditor.remaining)
		if amount.IsPositive() {
			plan.Transactions = append(plan.Transactions, Transaction{
				FromID: debtor.id,
				From:   debtor.name,
				ToID:   creditor.id,
				To:     creditor.name,
				Amount: amount,
			})
			debtor.remaining = debtor.remaining.Add(amount)
			creditor.remaining = creditor.remaining.Sub(amount)
		}

		if debtor.remaining.IsZero() {
			i++
		}
		if creditor.remaining.IsZero() {
			j++
		}
	}

	for ; i < len(debtors); i++ {
		plan.Residual = plan.Residual.Add(debtors[i].remaining)
	}
	for ; j < len(creditors); j++ {
		plan.Residual = plan.Residual.Add(creditors[j].remaining)
	}
	return plan
}
