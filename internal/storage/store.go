// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/Mdazar123/billsplitr/internal/models"
)

// ErrNotFound is returned (wrapped) when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for BillSplitr storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore

	// CreateGroup persists a new group and adds its owner as the first member.
	// group.ID and group.CreatedAt are populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group, owner models.Member) error

	// GetGroup retrieves a group by ID, including its roster.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns the groups userID is a member of, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// RenameGroup changes a group's name.
	RenameGroup(ctx context.Context, groupID, name string) error

	// DeleteGroup removes a group and everything recorded in it.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddMember adds a roster entry. Adding an existing member is a no-op.
	AddMember(ctx context.Context, member *models.Member) error

	// RemoveMember removes a roster entry. Expenses and payments are kept.
	RemoveMember(ctx context.Context, groupID, userID string) error

	// ListMembers returns a group's roster ordered by join time.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// CreateExpense persists a new expense.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns a group's expenses, newest first.
	ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreatePayment persists a new payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// GetPayment retrieves a payment by ID.
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)

	// ListPayments returns a group's payments, newest first.
	ListPayments(ctx context.Context, groupID string) ([]*models.Payment, error)

	// AcceptPayment flips a pending payment to accepted and stamps AcceptedAt.
	// Returns ErrNotFound when no pending payment with that ID exists.
	AcceptPayment(ctx context.Context, paymentID string, acceptedAt int64) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore covers user account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}
