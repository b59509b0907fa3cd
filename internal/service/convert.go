package service

import (
	"github.com/Mdazar123/billsplitr/internal/calculator"
	"github.com/Mdazar123/billsplitr/internal/models"
	"github.com/Mdazar123/billsplitr/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		Id:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		UpiId:       u.UPIID,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]*api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = &api.Member{
			UserId:   m.UserID,
			Name:     m.Name,
			Email:    m.Email,
			JoinedAt: m.JoinedAt,
		}
	}
	return &api.Group{
		Id:        g.ID,
		Name:      g.Name,
		OwnerId:   g.OwnerID,
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

// toAPIExpense includes the per-person share and the payer's display name
// resolved against the current roster.
func toAPIExpense(e *models.Expense, roster []calculator.Member) *api.Expense {
	ce := toCalcExpense(e)
	payerName := "Unknown"
	if payer, ok := calculator.Payer(roster, ce); ok {
		payerName = payer.DisplayName()
	} else if e.PaidBy != "" {
		payerName = e.PaidBy
	} else if e.PaidByEmail != "" {
		payerName = e.PaidByEmail
	}

	split := e.SplitBetween
	if split == nil {
		split = []string{}
	}
	return &api.Expense{
		Id:           e.ID,
		GroupId:      e.GroupID,
		Title:        e.Title,
		Amount:       e.Amount.String(),
		PaidById:     e.PaidByID,
		PaidBy:       e.PaidBy,
		PaidByEmail:  e.PaidByEmail,
		PayerName:    payerName,
		Category:     e.Category,
		SplitBetween: split,
		Share:        calculator.ExpenseShare(e.Amount, e.SplitBetween, roster).String(),
		ProofUrl:     e.ProofURL,
		CreatedAt:    e.CreatedAt,
	}
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		Id:         p.ID,
		GroupId:    p.GroupID,
		FromId:     p.FromID,
		From:       p.From,
		ToId:       p.ToID,
		To:         p.To,
		Amount:     p.Amount.String(),
		ProofUrl:   p.ProofURL,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		AcceptedAt: p.AcceptedAt,
	}
}

func toCalcMembers(members []models.Member) []calculator.Member {
	out := make([]calculator.Member, len(members))
	for i, m := range members {
		out[i] = calculator.Member{ID: m.UserID, Name: m.Name, Email: m.Email}
	}
	return out
}

func toCalcExpense(e *models.Expense) calculator.Expense {
	return calculator.Expense{
		Amount:       e.Amount,
		PaidByID:     e.PaidByID,
		PaidBy:       e.PaidBy,
		PaidByEmail:  e.PaidByEmail,
		SplitBetween: e.SplitBetween,
	}
}

// snapshotOf converts stored records into the calculator's input.
func snapshotOf(members []models.Member, expenses []*models.Expense, payments []*models.Payment) calculator.Snapshot {
	s := calculator.Snapshot{
		Members:  toCalcMembers(members),
		Expenses: make([]calculator.Expense, len(expenses)),
		Payments: make([]calculator.Payment, len(payments)),
	}
	for i, e := range expenses {
		s.Expenses[i] = toCalcExpense(e)
	}
	for i, p := range payments {
		s.Payments[i] = calculator.Payment{
			FromID: p.FromID,
			ToID:   p.ToID,
			Amount: p.Amount,
			Status: calculator.PaymentStatus(p.Status),
		}
	}
	return s
}

func toAPIBalances(res calculator.Result) *api.GetGroupBalancesResponse {
	balances := make([]*api.MemberBalance, len(res.Stats))
	for i, s := range res.Stats {
		balances[i] = &api.MemberBalance{
			MemberId:  s.ID,
			Name:      s.Name,
			TotalPaid: s.TotalPaid.String(),
			TotalOwed: s.TotalOwed.String(),
			Balance:   s.Balance.String(),
		}
	}
	settlements := make([]*api.Settlement, len(res.Plan.Transactions))
	for i, t := range res.Plan.Transactions {
		settlements[i] = &api.Settlement{
			FromId: t.FromID,
			From:   t.From,
			ToId:   t.ToID,
			To:     t.To,
			Amount: t.Amount.String(),
		}
	}
	return &api.GetGroupBalancesResponse{
		TotalExpenses: res.TotalExpenses.String(),
		PerPerson:     res.PerPerson.String(),
		MemberCount:   int32(len(res.Stats)),
		Balances:      balances,
		Settlements:   settlements,
		Residual:      res.Plan.Residual.String(),
	}
}
