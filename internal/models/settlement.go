package models

import "github.com/shopspring/decimal"

// PaymentStatus is the approval state of a payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentAccepted PaymentStatus = "accepted"
)

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentAccepted
}

// Payment represents a transfer between group members to clear debts.
// It starts pending and only counts toward balances once the group owner
// accepts it.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID is the group this payment belongs to.
	GroupID string

	// FromID is the member who paid (debtor settling up).
	FromID string
	From   string

	// ToID is the member who received payment (creditor being paid).
	ToID string
	To   string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// ProofURL optionally points to a screenshot of the transfer.
	ProofURL string

	Status PaymentStatus

	// CreatedAt is the Unix timestamp when the payment was submitted.
	CreatedAt int64

	// AcceptedAt is the Unix timestamp when the owner accepted it, 0 while pending.
	AcceptedAt int64
}
