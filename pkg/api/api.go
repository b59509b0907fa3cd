// Package api defines the request and response messages of the BillSplitr
// Connect services.
//
// Messages travel as JSON. Money is always a decimal string (e.g. "8000",
// "10.50") so clients never round-trip amounts through floating point.
// Timestamps are Unix seconds.
package api

// User is the public view of an account.
type User struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	UpiId       string `json:"upiId,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// Member is one entry of a group roster.
type Member struct {
	UserId   string `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	JoinedAt int64  `json:"joinedAt"`
}

// Group is a set of members who share expenses.
type Group struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerId   string    `json:"ownerId"`
	Members   []*Member `json:"members"`
	CreatedAt int64     `json:"createdAt"`
}

// Expense is money one member spent on behalf of the group.
type Expense struct {
	Id           string   `json:"id"`
	GroupId      string   `json:"groupId"`
	Title        string   `json:"title"`
	Amount       string   `json:"amount"`
	PaidById     string   `json:"paidById,omitempty"`
	PaidBy       string   `json:"paidBy,omitempty"`
	PaidByEmail  string   `json:"paidByEmail,omitempty"`
	PayerName    string   `json:"payerName"`
	Category     string   `json:"category"`
	SplitBetween []string `json:"splitBetween"`
	Share        string   `json:"share"`
	ProofUrl     string   `json:"proofUrl,omitempty"`
	CreatedAt    int64    `json:"createdAt"`
}

// Payment is a settlement transfer between two members.
type Payment struct {
	Id         string `json:"id"`
	GroupId    string `json:"groupId"`
	FromId     string `json:"fromId"`
	From       string `json:"from"`
	ToId       string `json:"toId"`
	To         string `json:"to"`
	Amount     string `json:"amount"`
	ProofUrl   string `json:"proofUrl,omitempty"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"createdAt"`
	AcceptedAt int64  `json:"acceptedAt,omitempty"`
}

// MemberBalance is the derived balance view for one member.
// Positive balance means the member is owed money.
type MemberBalance struct {
	MemberId  string `json:"memberId"`
	Name      string `json:"name"`
	TotalPaid string `json:"totalPaid"`
	TotalOwed string `json:"totalOwed"`
	Balance   string `json:"balance"`
}

// Settlement is one suggested transfer of a settlement plan.
type Settlement struct {
	FromId string `json:"fromId"`
	From   string `json:"from"`
	ToId   string `json:"toId"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}
