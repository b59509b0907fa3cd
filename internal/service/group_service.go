package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/Mdazar123/billsplitr/internal/auth"
	"github.com/Mdazar123/billsplitr/internal/calculator"
	"github.com/Mdazar123/billsplitr/internal/events"
	"github.com/Mdazar123/billsplitr/internal/models"
	"github.com/Mdazar123/billsplitr/internal/storage"
	"github.com/Mdazar123/billsplitr/pkg/api"
	"github.com/Mdazar123/billsplitr/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService
type GroupService struct {
	store   storage.Store
	changes *GroupChanges
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, changes *GroupChanges) *GroupService {
	return &GroupService{store: store, changes: changes}
}

// CreateGroup creates a new group owned by the caller, who becomes its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "user_id", userID)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group name required"))
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("CreateGroup failed - could not load owner", "user_id", userID, "error", err)
		return nil, storeError(err)
	}

	group := &models.Group{Name: name, OwnerID: userID}
	owner := models.Member{UserID: user.ID, Name: user.RosterName(), Email: user.Email}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group, owner); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.changes.record(ctx, events.New(events.GroupCreated, group.ID, userID, group.ID))
	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupId, "user_id", userID)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		slog.Warn("GetGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, err
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)
	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves every group the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListGroups request received", "user_id", userID)

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	apiGroups := make([]*api.Group, len(groups))
	for i, group := range groups {
		apiGroups[i] = toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: apiGroups}), nil
}

// RenameGroup changes a group's name. Owner only.
func (s *GroupService) RenameGroup(ctx context.Context, req *connect.Request[api.RenameGroupRequest]) (*connect.Response[api.RenameGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RenameGroup request received", "group_id", req.Msg.GroupId, "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group name required"))
	}

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.RenameGroup(ctx, group.ID, name); err != nil {
		slog.Error("RenameGroup failed", "error", err)
		return nil, storeError(err)
	}
	group.Name = name

	s.changes.record(ctx, events.New(events.GroupRenamed, group.ID, userID, group.ID))
	slog.Info("Group renamed", "group_id", group.ID)

	return connect.NewResponse(&api.RenameGroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group and everything recorded in it. Owner only.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupId)

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, storeError(err)
	}

	s.changes.record(ctx, events.New(events.GroupDeleted, group.ID, userID, group.ID))
	slog.Info("Group deleted", "group_id", group.ID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMember adds a registered user to the roster by email. Owner only.
// Adding someone who is already a member succeeds without changes.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddMember request received", "group_id", req.Msg.GroupId, "email", req.Msg.Email)

	email := auth.NormalizeEmail(req.Msg.Email)
	if email == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("member email required"))
	}

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		slog.Warn("AddMember failed - no such user", "email", email, "error", err)
		return nil, storeError(err)
	}

	if !group.HasMember(user.ID) {
		member := &models.Member{
			GroupID: group.ID,
			UserID:  user.ID,
			Name:    user.RosterName(),
			Email:   user.Email,
		}
		if err := s.store.AddMember(ctx, member); err != nil {
			slog.Error("AddMember failed", "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		group.Members = append(group.Members, *member)
		s.changes.record(ctx, events.New(events.MemberAdded, group.ID, userID, user.ID))
	}

	slog.Info("Member added", "group_id", group.ID, "member_id", user.ID)
	return connect.NewResponse(&api.AddMemberResponse{Group: toAPIGroup(group)}), nil
}

// RemoveMember removes a user from the roster. Owner only; the owner cannot
// be removed. Their expenses and payments stay on record.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupId, "member_id", req.Msg.UserId)

	if req.Msg.UserId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("user_id required"))
	}

	group, err := ownedGroup(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserId == group.OwnerID {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("the group owner cannot be removed"))
	}

	if err := s.store.RemoveMember(ctx, group.ID, req.Msg.UserId); err != nil {
		slog.Warn("RemoveMember failed", "error", err)
		return nil, storeError(err)
	}

	members := group.Members[:0]
	for _, m := range group.Members {
		if m.UserID != req.Msg.UserId {
			members = append(members, m)
		}
	}
	group.Members = members

	s.changes.record(ctx, events.New(events.MemberRemoved, group.ID, userID, req.Msg.UserId))
	slog.Info("Member removed", "group_id", group.ID, "member_id", req.Msg.UserId)

	return connect.NewResponse(&api.RemoveMemberResponse{Group: toAPIGroup(group)}), nil
}

// shareMode parses the optional share mode field.
func shareMode(s string) (calculator.ShareMode, string, error) {
	switch s {
	case "", api.ShareModeEqual:
		return calculator.ShareEqual, api.ShareModeEqual, nil
	case api.ShareModeBySplit:
		return calculator.ShareBySplit, api.ShareModeBySplit, nil
	default:
		return 0, "", connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("invalid share_mode %q: must be %q or %q", s, api.ShareModeEqual, api.ShareModeBySplit))
	}
}

// GetGroupBalances computes member balances and a settlement plan from the
// group's current roster, expenses and accepted payments.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupId
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroupBalances request received", "group_id", groupID, "share_mode", req.Msg.ShareMode)

	mode, modeName, err := shareMode(req.Msg.ShareMode)
	if err != nil {
		return nil, err
	}

	// Taken before the roster and snapshot load; a write after this point
	// makes the result uncacheable.
	gen, genErr := s.changes.cache.Generation(ctx, groupID)
	if genErr != nil {
		slog.Warn("Balance cache generation read failed", "group_id", groupID, "error", genErr)
	}

	group, err := memberGroup(ctx, s.store, groupID, userID)
	if err != nil {
		slog.Warn("GetGroupBalances failed - group not accessible", "group_id", groupID, "error", err)
		return nil, err
	}

	if cached, ok := s.cachedBalances(ctx, group.ID, modeName); ok {
		slog.Info("GetGroupBalances served from cache", "group_id", group.ID)
		return connect.NewResponse(cached), nil
	}

	var (
		expenses []*models.Expense
		payments []*models.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, group.ID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.store.ListPayments(gctx, group.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("GetGroupBalances failed - could not load snapshot", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	result := calculator.Compute(snapshotOf(group.Members, expenses, payments), calculator.Options{ShareMode: mode})
	resp := toAPIBalances(result)

	if !result.Plan.Residual.IsZero() {
		slog.Debug("Settlement plan has rounding residual", "group_id", group.ID, "residual", result.Plan.Residual)
	}
	if genErr == nil {
		s.storeBalances(ctx, group.ID, modeName, gen, resp)
	}

	slog.Info("GetGroupBalances successful",
		"group_id", group.ID,
		"expenses_count", len(expenses),
		"members_count", len(result.Stats),
		"settlements_count", len(result.Plan.Transactions),
	)
	return connect.NewResponse(resp), nil
}

func (s *GroupService) cachedBalances(ctx context.Context, groupID, field string) (*api.GetGroupBalancesResponse, bool) {
	data, ok, err := s.changes.cache.Get(ctx, groupID, field)
	if err != nil {
		slog.Warn("Balance cache read failed", "group_id", groupID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp api.GetGroupBalancesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		slog.Warn("Balance cache entry unreadable", "group_id", groupID, "error", err)
		return nil, false
	}
	return &resp, true
}

func (s *GroupService) storeBalances(ctx context.Context, groupID, field string, gen uint64, resp *api.GetGroupBalancesResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Warn("Balance cache encode failed", "group_id", groupID, "error", err)
		return
	}
	stored, err := s.changes.cache.Set(ctx, groupID, field, gen, data)
	if err != nil {
		slog.Warn("Balance cache write failed", "group_id", groupID, "error", err)
		return
	}
	if !stored {
		slog.Debug("Balance cache write skipped, group changed during computation", "group_id", groupID)
	}
}
