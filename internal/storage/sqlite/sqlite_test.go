package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Mdazar123/billsplitr/internal/models"
	"github.com/Mdazar123/billsplitr/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestGroup(t *testing.T, store *SQLiteStore, name string) *models.Group {
	t.Helper()

	group := &models.Group{Name: name, OwnerID: "owner-1"}
	owner := models.Member{UserID: "owner-1", Name: "Asha", Email: "asha@example.com"}
	if err := store.CreateGroup(context.Background(), group, owner); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and adds owner", func(t *testing.T) {
		group := createTestGroup(t, store, "Goa Trip")

		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Goa Trip" || got.OwnerID != "owner-1" {
			t.Errorf("Unexpected group: %+v", got)
		}
		if len(got.Members) != 1 || got.Members[0].UserID != "owner-1" {
			t.Errorf("Expected owner as sole member, got %+v", got.Members)
		}
	})

	t.Run("AddMember is idempotent and RemoveMember works", func(t *testing.T) {
		group := createTestGroup(t, store, "Flat 4B")
		member := &models.Member{GroupID: group.ID, UserID: "u2", Name: "Ravi"}

		for i := 0; i < 2; i++ {
			if err := store.AddMember(ctx, member); err != nil {
				t.Fatalf("AddMember failed: %v", err)
			}
		}
		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Fatalf("Expected 2 members, got %d", len(members))
		}

		if err := store.RemoveMember(ctx, group.ID, "u2"); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		if err := store.RemoveMember(ctx, group.ID, "u2"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound removing twice, got %v", err)
		}
	})

	t.Run("ListGroupsForUser only returns memberships", func(t *testing.T) {
		group := createTestGroup(t, store, "Office Lunch")
		if err := store.AddMember(ctx, &models.Member{GroupID: group.ID, UserID: "lonely", Name: "Meera"}); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}

		groups, err := store.ListGroupsForUser(ctx, "lonely")
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("Expected only %s, got %+v", group.ID, groups)
		}
	})

	t.Run("RenameGroup and DeleteGroup", func(t *testing.T) {
		group := createTestGroup(t, store, "Old Name")

		if err := store.RenameGroup(ctx, group.ID, "New Name"); err != nil {
			t.Fatalf("RenameGroup failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		if got.Name != "New Name" {
			t.Errorf("Name = %q, want %q", got.Name, "New Name")
		}

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.RenameGroup(ctx, "missing", "x"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound renaming missing group, got %v", err)
		}
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createTestGroup(t, store, "Trip")

	expense := &models.Expense{
		GroupID:      group.ID,
		Title:        "Hotel",
		Amount:       decimal.RequireFromString("8000.50"),
		PaidByID:     "owner-1",
		PaidBy:       "Asha",
		PaidByEmail:  "asha@example.com",
		Category:     "Accommodation",
		SplitBetween: []string{"Asha", "Ravi", "Meera"},
	}

	t.Run("CreateExpense and GetExpense round trip", func(t *testing.T) {
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Fatal("Expected expense ID to be generated")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(expense.Amount) {
			t.Errorf("Amount = %s, want %s", got.Amount, expense.Amount)
		}
		if len(got.SplitBetween) != 3 || got.SplitBetween[2] != "Meera" {
			t.Errorf("SplitBetween = %v, want split order preserved", got.SplitBetween)
		}
	})

	t.Run("ListExpenses includes splits", func(t *testing.T) {
		second := &models.Expense{GroupID: group.ID, Title: "Snacks", Amount: decimal.NewFromInt(120), PaidByID: "owner-1"}
		if err := store.CreateExpense(ctx, second); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expenses, err := store.ListExpenses(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("Expected 2 expenses, got %d", len(expenses))
		}
		for _, e := range expenses {
			if e.ID == expense.ID && len(e.SplitBetween) != 3 {
				t.Errorf("Expected 3 split participants, got %v", e.SplitBetween)
			}
			if e.ID == second.ID && len(e.SplitBetween) != 0 {
				t.Errorf("Expected no split participants, got %v", e.SplitBetween)
			}
		}
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_Payments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createTestGroup(t, store, "Trip")

	payment := &models.Payment{
		GroupID: group.ID,
		FromID:  "u2",
		From:    "Ravi",
		ToID:    "owner-1",
		To:      "Asha",
		Amount:  decimal.NewFromInt(100),
	}
	if err := store.CreatePayment(ctx, payment); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if payment.Status != models.PaymentPending {
		t.Errorf("Status = %q, want pending", payment.Status)
	}

	if err := store.AcceptPayment(ctx, payment.ID, 1700000000); err != nil {
		t.Fatalf("AcceptPayment failed: %v", err)
	}
	got, err := store.GetPayment(ctx, payment.ID)
	if err != nil {
		t.Fatalf("GetPayment failed: %v", err)
	}
	if got.Status != models.PaymentAccepted || got.AcceptedAt != 1700000000 {
		t.Errorf("Unexpected payment after accept: %+v", got)
	}

	// Accepting twice finds no pending row.
	if err := store.AcceptPayment(ctx, payment.ID, 1700000001); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second accept, got %v", err)
	}

	payments, err := store.ListPayments(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("Expected 1 payment, got %d", len(payments))
	}
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("asha@example.com", "Asha", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID = %s, want %s", byEmail.ID, user.ID)
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	user.UPIID = "asha@upi"
	if err := store.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	users, err := store.GetUsersByIDs(ctx, []string{user.ID, "missing"})
	if err != nil {
		t.Fatalf("GetUsersByIDs failed: %v", err)
	}
	if len(users) != 1 || users[user.ID].UPIID != "asha@upi" {
		t.Errorf("Unexpected users: %+v", users)
	}
}

func TestRepeatPlaceholder(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{-1, ""},
		{1, ", ?"},
		{3, ", ?, ?, ?"},
	}
	for _, tt := range tests {
		if got := repeatPlaceholder(tt.n); got != tt.want {
			t.Errorf("repeatPlaceholder(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
