package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/Mdazar123/billsplitr/internal/calculator"
	"github.com/Mdazar123/billsplitr/internal/events"
	"github.com/Mdazar123/billsplitr/internal/models"
	"github.com/Mdazar123/billsplitr/internal/storage"
	"github.com/Mdazar123/billsplitr/pkg/api"
	"github.com/Mdazar123/billsplitr/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store   storage.Store
	changes *GroupChanges
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, changes *GroupChanges) *ExpenseService {
	return &ExpenseService{store: store, changes: changes}
}

// CreateExpense records money spent by a member on behalf of the group.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupId,
		"title", req.Msg.Title,
		"amount", req.Msg.Amount,
		"split_count", len(req.Msg.SplitBetween),
	)

	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("title required"))
	}
	amount, err := parseAmount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	group, err := memberGroup(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}

	payerID := req.Msg.PaidById
	if payerID == "" {
		payerID = userID
	}
	payer, ok := group.Member(payerID)
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("payer %s is not a member of this group", payerID))
	}

	roster := toCalcMembers(group.Members)
	split, err := splitList(req.Msg.SplitBetween, calculator.RosterNames(roster))
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(req.Msg.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	expense := &models.Expense{
		GroupID:      group.ID,
		Title:        title,
		Amount:       amount,
		PaidByID:     payer.UserID,
		PaidBy:       payer.Name,
		PaidByEmail:  payer.Email,
		Category:     category,
		SplitBetween: split,
		ProofURL:     strings.TrimSpace(req.Msg.ProofUrl),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.changes.record(ctx, events.New(events.ExpenseCreated, group.ID, userID, expense.ID))
	slog.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense, roster)}), nil
}

// splitList validates the requested participants against the roster. An
// empty request means everyone currently on the roster.
func splitList(requested, rosterNames []string) ([]string, error) {
	if len(requested) == 0 {
		return rosterNames, nil
	}
	split := make([]string, 0, len(requested))
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if !slices.Contains(rosterNames, name) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("split participant %q is not a member of this group", name))
		}
		if !slices.Contains(split, name) {
			split = append(split, name)
		}
	}
	return split, nil
}

// ListExpenses returns a group's expenses, newest first, with each expense's
// per-person share and resolved payer name.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupId)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	roster := toCalcMembers(group.Members)
	apiExpenses := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		apiExpenses[i] = toAPIExpense(e, roster)
	}

	slog.Info("ListExpenses successful", "group_id", group.ID, "count", len(expenses))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: apiExpenses}), nil
}

// DeleteExpense removes an expense. Allowed for the group owner and the payer.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseId)

	if req.Msg.ExpenseId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("expense_id required"))
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseId)
	if err != nil {
		return nil, storeError(err)
	}

	group, err := recordGroup(ctx, s.store, expense.GroupID, userID, "expense", expense.ID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != userID && expense.PaidByID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only the payer or the group owner can delete an expense"))
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "error", err)
		return nil, storeError(err)
	}

	s.changes.record(ctx, events.New(events.ExpenseDeleted, group.ID, userID, expense.ID))
	slog.Info("Expense deleted", "expense_id", expense.ID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
