package service

import (
	"context"
	"slices"
	"testing"

	"connectrpc.com/connect"

	"github.com/Mdazar123/billsplitr/internal/events"
	"github.com/Mdazar123/billsplitr/internal/models"
	"github.com/Mdazar123/billsplitr/pkg/api"
)

func TestCreateExpense_Defaults(t *testing.T) {
	env := setupTestServer(t)
	a := env.register(t, "A", "a@example.com")
	b := env.register(t, "B", "b@example.com")
	group := env.newGroup(t, a, "Trip", b)

	resp, err := env.expenses.CreateExpense(context.Background(), as(b, &api.CreateExpenseRequest{
		GroupId: group.Id,
		Title:   "  Groceries ",
		Amount:  "450.50",
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	e := resp.Msg.Expense
	if e.Id == "" {
		t.Error("expected non-empty expense ID")
	}
	if e.Title != "Groceries" {
		t.Errorf("title: expected 'Groceries', got %q", e.Title)
	}
	if e.Amount != "450.5" {
		t.Errorf("amount: expected 450.5, got %s", e.Amount)
	}
	if e.PaidById != b.id || e.PayerName != "B" {
		t.Errorf("payer: expected B (%s), got %s (%s)", b.id, e.PayerName, e.PaidById)
	}
	if e.Category != models.DefaultCategory {
		t.Errorf("category: expected %q, got %q", models.DefaultCategory, e.Category)
	}
	if !slices.Equal(e.SplitBetween, []string{"A", "B"}) {
		t.Errorf("split: expected whole roster, got %v", e.SplitBetween)
	}
	// 450.5 / 2 rounds to a whole unit.
	if e.Share != "225" {
		t.Errorf("share: expected 225, got %s", e.Share)
	}
	if !slices.Contains(env.published.types(), events.ExpenseCreated) {
		t.Errorf("expected %s event, got %v", events.ExpenseCreated, env.published.types())
	}
}

func TestCreateExpense_ExplicitFields(t *testing.T) {
	env := setupTestServer(t)
	a := env.register(t, "A", "a@example.com")
	b := env.register(t, "B", "b@example.com")
	c := env.register(t, "C", "c@example.com")
	group := env.newGroup(t, a, "Trip", b, c)

	resp, err := env.expenses.CreateExpense(context.Background(), as(a, &api.CreateExpenseRequest{
		GroupId:      group.Id,
		Title:        "Taxi",
		Amount:       "300",
		PaidById:     c.id,
		Category:     "Transport",
		SplitBetween: []string{"B", " C ", "B"},
		ProofUrl:     "https://example.com/receipt.jpg",
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	e := resp.Msg.Expense
	if e.PaidById != c.id || e.PayerName != "C" {
		t.Errorf("payer: expected C, got %s", e.PayerName)
	}
	if e.Category != "Transport" {
		t.Errorf("category: expected Transport, got %q", e.Category)
	}
	if !slices.Equal(e.SplitBetween, []string{"B", "C"}) {
		t.Errorf("split: expected [B C], got %v", e.SplitBetween)
	}
	if e.Share != "150" {
		t.Errorf("share: expected 150, got %s", e.Share)
	}
	if e.ProofUrl != "https://example.com/receipt.jpg" {
		t.Errorf("proof: got %q", e.ProofUrl)
	}
}

func TestCreateExpense_Validation(t *testing.T) {
	env := setupTestServer(t)
	a := env.register(t, "A", "a@example.com")
	outsider := env.register(t, "X", "x@example.com")
	group := env.newGroup(t, a, "Trip")

	tests := []struct {
		name string
		user testUser
		req  *api.CreateExpenseRequest
		want connect.Code
	}{
		{"missing title", a, &api.CreateExpenseRequest{GroupId: group.Id, Amount: "10"}, connect.CodeInvalidArgument},
		{"zero amount", a, &api.CreateExpenseRequest{GroupId: group.Id, Title: "T", Amount: "0"}, connect.CodeInvalidArgument},
		{"negative amount", a, &api.CreateExpenseRequest{GroupId: group.Id, Title: "T", Amount: "-5"}, connect.CodeInvalidArgument},
		{"unparseable amount", a, &api.CreateExpenseRequest{GroupId: group.Id, Title: "T", Amount: "ten"}, connect.CodeInvalidArgument},
		{"payer not a member", a, &api.CreateExpenseRequest{GroupId: group.Id, Title: "T", Amount: "10", PaidById: outsider.id}, connect.CodeInvalidArgument},
		{"unknown split name", a, &api.CreateExpenseRequest{GroupId: group.Id, Title: "T", Amount: "10", SplitBetween: []string{"Z"}}, connect.CodeInvalidArgument},
		{"caller not a member", outsider, &api.CreateExpenseRequest{GroupId: group.Id, Title: "T", Amount: "10"}, connect.CodePermissionDenied},
		{"unknown group", a, &api.CreateExpenseRequest{GroupId: "missing", Title: "T", Amount: "10"}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.expenses.CreateExpense(context.Background(), as(tt.user, tt.req))
			expectCode(t, err, tt.want)
		})
	}
}

func TestListExpenses(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	a := env.register(t, "A", "a@example.com")
	b := env.register(t, "B", "b@example.com")
	outsider := env.register(t, "X", "x@example.com")
	group := env.newGroup(t, a, "Trip", b)

	created := map[string]string{}
	for _, title := range []string{"Hotel", "Fuel"} {
		resp, err := env.expenses.CreateExpense(ctx, as(a, &api.CreateExpenseRequest{GroupId: group.Id, Title: title, Amount: "100"}))
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		created[resp.Msg.Expense.Id] = title
	}

	resp, err := env.expenses.ListExpenses(ctx, as(b, &api.ListExpensesRequest{GroupId: group.Id}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(resp.Msg.Expenses))
	}
	for _, e := range resp.Msg.Expenses {
		if created[e.Id] != e.Title {
			t.Errorf("unexpected expense %s %q", e.Id, e.Title)
		}
		if e.PayerName != "A" || e.Share != "50" {
			t.Errorf("expense %q: payer %q share %s", e.Title, e.PayerName, e.Share)
		}
	}

	_, err = env.expenses.ListExpenses(ctx, as(outsider, &api.ListExpensesRequest{GroupId: group.Id}))
	expectCode(t, err, connect.CodePermissionDenied)
}

func TestListExpenses_RemovedPayer(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	a := env.register(t, "A", "a@example.com")
	b := env.register(t, "B", "b@example.com")
	group := env.newGroup(t, a, "Trip", b)

	_, err := env.expenses.CreateExpense(ctx, as(b, &api.CreateExpenseRequest{GroupId: group.Id, Title: "Snacks", Amount: "80"}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if _, err := env.groups.RemoveMember(ctx, as(a, &api.RemoveMemberRequest{GroupId: group.Id, UserId: b.id})); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	resp, err := env.expenses.ListExpenses(ctx, as(a, &api.ListExpensesRequest{GroupId: group.Id}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(resp.Msg.Expenses))
	}
	// The recorded payer name survives roster removal.
	if got := resp.Msg.Expenses[0].PayerName; got != "B" {
		t.Errorf("payer name: expected B, got %q", got)
	}
}

func TestDeleteExpense_Permissions(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	a := env.register(t, "A", "a@example.com")
	b := env.register(t, "B", "b@example.com")
	c := env.register(t, "C", "c@example.com")
	group := env.newGroup(t, a, "Trip", b, c)

	create := func(payer testUser) string {
		t.Helper()
		resp, err := env.expenses.CreateExpense(ctx, as(payer, &api.CreateExpenseRequest{GroupId: group.Id, Title: "Meal", Amount: "90"}))
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		return resp.Msg.Expense.Id
	}

	byB := create(b)

	_, err := env.expenses.DeleteExpense(ctx, as(c, &api.DeleteExpenseRequest{ExpenseId: byB}))
	expectCode(t, err, connect.CodePermissionDenied)

	// Outside the group, an existing expense looks the same as a missing one.
	outsider := env.register(t, "X", "x@example.com")
	_, err = env.expenses.DeleteExpense(ctx, as(outsider, &api.DeleteExpenseRequest{ExpenseId: byB}))
	expectCode(t, err, connect.CodeNotFound)

	if _, err := env.expenses.DeleteExpense(ctx, as(b, &api.DeleteExpenseRequest{ExpenseId: byB})); err != nil {
		t.Fatalf("payer DeleteExpense failed: %v", err)
	}
	_, err = env.expenses.DeleteExpense(ctx, as(b, &api.DeleteExpenseRequest{ExpenseId: byB}))
	expectCode(t, err, connect.CodeNotFound)

	byC := create(c)
	if _, err := env.expenses.DeleteExpense(ctx, as(a, &api.DeleteExpenseRequest{ExpenseId: byC})); err != nil {
		t.Fatalf("owner DeleteExpense failed: %v", err)
	}

	_, err = env.expenses.DeleteExpense(ctx, as(a, &api.DeleteExpenseRequest{}))
	expectCode(t, err, connect.CodeInvalidArgument)

	if !slices.Contains(env.published.types(), events.ExpenseDeleted) {
		t.Errorf("expected %s event, got %v", events.ExpenseDeleted, env.published.types())
	}
}

func TestSplitList(t *testing.T) {
	roster := []string{"Asha", "Ravi", "Meena"}

	tests := []struct {
		name      string
		requested []string
		want      []string
		wantErr   bool
	}{
		{"empty means everyone", nil, roster, false},
		{"subset", []string{"Ravi"}, []string{"Ravi"}, false},
		{"trims and dedupes", []string{" Ravi", "Asha", "Ravi "}, []string{"Ravi", "Asha"}, false},
		{"unknown name", []string{"Asha", "Kiran"}, nil, true},
		{"blank name", []string{""}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitList(tt.requested, roster)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitList() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !slices.Equal(got, tt.want) {
				t.Errorf("splitList() = %v, want %v", got, tt.want)
			}
		})
	}
}
