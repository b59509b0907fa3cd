package calculator

// payerMatcher reports whether expense e was paid by member m.
type payerMatcher func(m Member, e Expense) bool

// payerMatchers are tried in order; the first matcher that finds any roster
// member wins. Empty identifiers never match, so an expense with no payer
// data stays unattributed instead of landing on a member without an email.
var payerMatchers = []payerMatcher{
	func(m Member, e Expense) bool { return e.PaidByID != "" && e.PaidByID == m.ID },
	func(m Member, e Expense) bool { return e.PaidBy != "" && e.PaidBy == m.Name },
	func(m Member, e Expense) bool { return e.PaidByEmail != "" && e.PaidByEmail == m.Email },
}

// attributePayer returns the roster index of the member who paid e.
// An expense is attributed to at most one member.
func attributePayer(members []Member, e Expense) (int, bool) {
	for _, match := range payerMatchers {
		for i, m := range members {
			if match(m, e) {
				return i, true
			}
		}
	}
	return -1, false
}

// Payer returns the member who paid e, if any roster entry matches.
func Payer(members []Member, e Expense) (Member, bool) {
	i, ok := attributePayer(members, e)
	if !ok {
		return Member{}, false
	}
	return members[i], true
}
