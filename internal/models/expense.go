package models

import "github.com/shopspring/decimal"

// DefaultCategory is used when an expense is recorded without one.
const DefaultCategory = "Accommodation"

// Expense represents money one member spent on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Title is the human-readable description (e.g., "Hotel", "Dinner").
	Title string

	// Amount is the total spent. Always positive for new expenses.
	Amount decimal.Decimal

	// PaidByID, PaidBy and PaidByEmail identify the payer. Any of them may
	// match a roster entry; see calculator.Payer for the matching order.
	PaidByID    string
	PaidBy      string
	PaidByEmail string

	// Category is a free-form label used for grouping in reports.
	Category string

	// SplitBetween is the list of participant names recorded with the expense.
	// Empty means the whole roster.
	SplitBetween []string

	// ProofURL optionally points to a receipt image hosted elsewhere.
	ProofURL string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
