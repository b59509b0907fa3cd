package api

type CreateExpenseRequest struct {
	GroupId string `json:"groupId"`
	Title   string `json:"title"`
	Amount  string `json:"amount"`

	// PaidById defaults to the caller.
	PaidById string `json:"paidById,omitempty"`

	// Category defaults to "Accommodation".
	Category string `json:"category,omitempty"`

	// SplitBetween defaults to every roster name.
	SplitBetween []string `json:"splitBetween,omitempty"`
	ProofUrl     string   `json:"proofUrl,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupId string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseId string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}
