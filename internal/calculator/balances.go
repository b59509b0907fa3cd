// Package calculator computes group balances and settlement plans.
//
// Everything here is a pure function over an in-memory snapshot. Callers
// re-invoke Compute whenever their members, expenses or payments change;
// nothing is cached or persisted by this package.
package calculator

import (
	"github.com/shopspring/decimal"
)

// PaymentStatus is the approval state of a settlement payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentAccepted PaymentStatus = "accepted"
)

// ShareMode selects how each member's share of the group expenses is derived.
type ShareMode int

const (
	// ShareEqual charges every member round(totalExpenses / memberCount),
	// regardless of the SplitBetween recorded on individual expenses.
	ShareEqual ShareMode = iota

	// ShareBySplit charges each member amount/|SplitBetween| for every
	// expense they are named in, rounded once at the end.
	ShareBySplit
)

// Member is one entry of a group roster.
type Member struct {
	ID    string
	Name  string
	Email string
}

// DisplayName returns Name, falling back to Email and then "Unknown".
func (m Member) DisplayName() string {
	switch {
	case m.Name != "":
		return m.Name
	case m.Email != "":
		return m.Email
	default:
		return "Unknown"
	}
}

// Expense is a contribution made by one member on behalf of the group.
type Expense struct {
	Amount       decimal.Decimal
	PaidByID     string
	PaidBy       string // payer display name
	PaidByEmail  string
	SplitBetween []string // participant names; empty means the whole roster
}

// Payment is a settlement transfer between two members.
type Payment struct {
	FromID string
	ToID   string
	Amount decimal.Decimal
	Status PaymentStatus
}

// MemberStats is the derived balance view for one member.
type MemberStats struct {
	ID        string
	Name      string
	TotalPaid decimal.Decimal
	TotalOwed decimal.Decimal
	Balance   decimal.Decimal // Positive = owed money, Negative = owes money
}

// Options tunes the balance computation. The zero value is ShareEqual.
type Options struct {
	ShareMode ShareMode
}

// Snapshot is an immutable view of a group's data at one point in time.
type Snapshot struct {
	Members  []Member
	Expenses []Expense
	Payments []Payment
}

// Result bundles everything derived from a Snapshot.
type Result struct {
	TotalExpenses decimal.Decimal
	PerPerson     decimal.Decimal
	Stats         []MemberStats
	Plan          Plan
}

// Compute derives member stats and the settlement plan for a snapshot.
func Compute(s Snapshot, opts Options) Result {
	stats := ComputeMemberStats(s.Members, s.Expenses, s.Payments, opts)
	return Result{
		TotalExpenses: TotalExpenses(s.Expenses),
		PerPerson:     PerPerson(s.Expenses, len(s.Members)),
		Stats:         stats,
		Plan:          Settle(stats),
	}
}

// TotalExpenses sums every expense amount, attributed or not.
func TotalExpenses(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// PerPerson returns round(totalExpenses / n), or zero for an empty roster.
func PerPerson(expenses []Expense, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return round(TotalExpenses(expenses).Div(decimal.NewFromInt(int64(n))))
}

// ComputeMemberStats returns one MemberStats per roster entry, in roster order.
//
// Algorithm:
//   - totalPaid: expenses attributed to the member (see attributePayer) plus
//     accepted payments the member sent
//   - totalOwed: the member's share according to opts.ShareMode
//   - balance: round(totalPaid - totalOwed)
func ComputeMemberStats(members []Member, expenses []Expense, payments []Payment, opts Options) []MemberStats {
	stats := make([]MemberStats, 0, len(members))
	if len(members) == 0 {
		return stats
	}

	paid := make([]decimal.Decimal, len(members))
	for _, e := range expenses {
		if i, ok := attributePayer(members, e); ok {
			paid[i] = paid[i].Add(e.Amount)
		}
	}

	byID := make(map[string]int, len(members))
	for i, m := range members {
		if _, dup := byID[m.ID]; !dup {
			byID[m.ID] = i
		}
	}
	for _, p := range payments {
		if p.Status != PaymentAccepted {
			continue
		}
		if i, ok := byID[p.FromID]; ok {
			paid[i] = paid[i].Add(p.Amount)
		}
	}

	owed := shares(members, expenses, opts.ShareMode)

	for i, m := range members {
		stats = append(stats, MemberStats{
			ID:        m.ID,
			Name:      m.DisplayName(),
			TotalPaid: paid[i],
			TotalOwed: owed[i],
			Balance:   round(paid[i].Sub(owed[i])),
		})
	}
	return stats
}

// shares returns each member's share of the group expenses.
func shares(members []Member, expenses []Expense, mode ShareMode) []decimal.Decimal {
	owed := make([]decimal.Decimal, len(members))

	if mode != ShareBySplit {
		perPerson := PerPerson(expenses, len(members))
		for i := range owed {
			owed[i] = perPerson
		}
		return owed
	}

	// SplitBetween holds display names, see RosterNames.
	roster := make([]string, len(members))
	for i, m := range members {
		roster[i] = m.DisplayName()
	}
	for _, e := range expenses {
		split := e.SplitBetween
		if len(split) == 0 {
			split = roster
		}
		named := make(map[string]bool, len(split))
		for _, name := range split {
			named[name] = true
		}
		share := e.Amount.Div(decimal.NewFromInt(int64(len(split))))
		for i, m := range members {
			if named[m.DisplayName()] {
				owed[i] = owed[i].Add(share)
			}
		}
	}
	for i := range owed {
		owed[i] = round(owed[i])
	}
	return owed
}

// round rounds half away from zero to a whole currency unit.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
