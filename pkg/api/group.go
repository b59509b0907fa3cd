package api

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupId string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type RenameGroupRequest struct {
	GroupId string `json:"groupId"`
	Name    string `json:"name"`
}

type RenameGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupId string `json:"groupId"`
}

type DeleteGroupResponse struct{}

// AddMemberRequest adds a registered user to a group by email.
type AddMemberRequest struct {
	GroupId string `json:"groupId"`
	Email   string `json:"email"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupId string `json:"groupId"`
	UserId  string `json:"userId"`
}

type RemoveMemberResponse struct {
	Group *Group `json:"group"`
}

// Share modes accepted by GetGroupBalancesRequest.ShareMode.
const (
	ShareModeEqual   = "equal"
	ShareModeBySplit = "split"
)

type GetGroupBalancesRequest struct {
	GroupId string `json:"groupId"`

	// ShareMode is "equal" (default) or "split".
	ShareMode string `json:"shareMode,omitempty"`
}

type GetGroupBalancesResponse struct {
	TotalExpenses string           `json:"totalExpenses"`
	PerPerson     string           `json:"perPerson"`
	MemberCount   int32            `json:"memberCount"`
	Balances      []*MemberBalance `json:"balances"`
	Settlements   []*Settlement    `json:"settlements"`

	// Residual is the signed balance the plan could not match, caused by
	// rounding per-member shares to whole units.
	Residual string `json:"residual"`
}
