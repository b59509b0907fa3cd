package models

// Group represents a set of people who split expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Goa Trip", "Flat 4B").
	Name string

	// OwnerID is the user who created the group. Only the owner can rename or
	// delete the group, manage members and accept payments.
	OwnerID string

	// Members is the current roster. Populated by GetGroup; may be nil on
	// list results.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is one user's entry on a group roster.
type Member struct {
	GroupID string

	// UserID identifies the member and is unique within a group.
	UserID string

	// Name is resolved once when the member joins (display name, email or "Unknown").
	Name string

	Email string

	JoinedAt int64
}

// HasMember reports whether userID is on the roster.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Member returns the roster entry for userID.
func (g *Group) Member(userID string) (Member, bool) {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}
