// Package service implements the BillSplitr Connect services.
//
// Every group-scoped call loads the group first and checks that the caller
// is on its roster; owner-only calls additionally check Group.OwnerID.
// Writes invalidate the group's cached balances and publish a domain event
// through GroupChanges.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/Mdazar123/billsplitr/internal/auth"
	"github.com/Mdazar123/billsplitr/internal/cache"
	"github.com/Mdazar123/billsplitr/internal/events"
	"github.com/Mdazar123/billsplitr/internal/middleware"
	"github.com/Mdazar123/billsplitr/internal/models"
	"github.com/Mdazar123/billsplitr/internal/storage"
)

var (
	errNotMember = errors.New("not a member of this group")
	errNotOwner  = errors.New("only the group owner can do this")
)

// GroupChanges invalidates cached balances and announces writes to a group.
type GroupChanges struct {
	cache     cache.Cache
	publisher events.Publisher
}

// NewGroupChanges wires the balance cache and the event publisher.
func NewGroupChanges(c cache.Cache, p events.Publisher) *GroupChanges {
	return &GroupChanges{cache: c, publisher: p}
}

// record runs after a committed write. Failures are logged, not returned:
// the write already happened and the cache entry expires on its own.
func (g *GroupChanges) record(ctx context.Context, e events.Event) {
	if err := g.cache.Invalidate(ctx, e.GroupID); err != nil {
		slog.Error("Balance cache invalidation failed", "group_id", e.GroupID, "error", err)
	}
	if err := g.publisher.Publish(ctx, e); err != nil {
		slog.Warn("Event publish failed", "type", e.Type, "group_id", e.GroupID, "error", err)
	}
}

// callerID returns the authenticated user or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// storeError maps a storage error to its RPC code.
func storeError(err error) *connect.Error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// memberGroup loads groupID and checks that userID is on its roster.
func memberGroup(ctx context.Context, store storage.Store, groupID, userID string) (*models.Group, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeError(err)
	}
	if !group.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return group, nil
}

// recordGroup loads the group owning a payment or expense. Callers outside
// the group get the same NotFound as for a record that does not exist.
func recordGroup(ctx context.Context, store storage.Store, groupID, userID, kind, id string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, storeError(err)
	}
	if err != nil || !group.HasMember(userID) {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound))
	}
	return group, nil
}

// ownedGroup loads groupID and checks that userID owns it.
func ownedGroup(ctx context.Context, store storage.Store, groupID, userID string) (*models.Group, error) {
	group, err := memberGroup(ctx, store, groupID, userID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotOwner)
	}
	return group, nil
}

// parseAmount reads a positive decimal amount.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid amount %q", s))
	}
	if !amount.IsPositive() {
		return decimal.Zero, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("amount must be greater than zero"))
	}
	return amount, nil
}
