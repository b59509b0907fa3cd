package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/Mdazar123/billsplitr/internal/events"
	"github.com/Mdazar123/billsplitr/internal/models"
	"github.com/Mdazar123/billsplitr/internal/storage"
	"github.com/Mdazar123/billsplitr/pkg/api"
	"github.com/Mdazar123/billsplitr/pkg/api/apiconnect"
	"github.com/Mdazar123/billsplitr/pkg/qrcode"
)

var _ apiconnect.PaymentServiceHandler = (*PaymentService)(nil)

// PaymentService implements the Connect PaymentService.
type PaymentService struct {
	store   storage.Store
	changes *GroupChanges
}

// NewPaymentService creates a new PaymentService with the given storage backend.
func NewPaymentService(store storage.Store, changes *GroupChanges) *PaymentService {
	return &PaymentService{store: store, changes: changes}
}

// SubmitPayment records a pending transfer from the caller to another member.
// It does not affect balances until the group owner accepts it.
func (s *PaymentService) SubmitPayment(ctx context.Context, req *connect.Request[api.SubmitPaymentRequest]) (*connect.Response[api.SubmitPaymentResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SubmitPayment request received",
		"group_id", req.Msg.GroupId,
		"to_id", req.Msg.ToId,
		"amount", req.Msg.Amount,
	)

	amount, err := parseAmount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	if req.Msg.ToId == userID {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("cannot pay yourself"))
	}

	group, err := memberGroup(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}
	from, _ := group.Member(userID)
	to, ok := group.Member(req.Msg.ToId)
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("recipient %q is not a member of this group", req.Msg.ToId))
	}

	payment := &models.Payment{
		GroupID:  group.ID,
		FromID:   from.UserID,
		From:     from.Name,
		ToID:     to.UserID,
		To:       to.Name,
		Amount:   amount,
		ProofURL: strings.TrimSpace(req.Msg.ProofUrl),
		Status:   models.PaymentPending,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("SubmitPayment failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.changes.record(ctx, events.New(events.PaymentSubmitted, group.ID, userID, payment.ID))
	slog.Info("Payment submitted", "payment_id", payment.ID, "group_id", group.ID)

	return connect.NewResponse(&api.SubmitPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// AcceptPayment marks a pending payment as accepted. Allowed for the group
// owner and the recipient.
func (s *PaymentService) AcceptPayment(ctx context.Context, req *connect.Request[api.AcceptPaymentRequest]) (*connect.Response[api.AcceptPaymentResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AcceptPayment request received", "payment_id", req.Msg.PaymentId)

	if req.Msg.PaymentId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("payment_id required"))
	}

	payment, err := s.store.GetPayment(ctx, req.Msg.PaymentId)
	if err != nil {
		return nil, storeError(err)
	}

	group, err := recordGroup(ctx, s.store, payment.GroupID, userID, "payment", payment.ID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != userID && payment.ToID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only the recipient or the group owner can accept a payment"))
	}

	errAlreadyAccepted := connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("payment %s is already accepted", payment.ID))
	if payment.Status == models.PaymentAccepted {
		return nil, errAlreadyAccepted
	}

	acceptedAt := time.Now().Unix()
	if err := s.store.AcceptPayment(ctx, payment.ID, acceptedAt); err != nil {
		// Another request accepted it between the read and the update.
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errAlreadyAccepted
		}
		slog.Error("AcceptPayment failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	payment.Status = models.PaymentAccepted
	payment.AcceptedAt = acceptedAt

	s.changes.record(ctx, events.New(events.PaymentAccepted, group.ID, userID, payment.ID))
	slog.Info("Payment accepted", "payment_id", payment.ID, "group_id", group.ID)

	return connect.NewResponse(&api.AcceptPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// ListPayments returns a group's payments, newest first, optionally filtered by status.
func (s *PaymentService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListPayments request received", "group_id", req.Msg.GroupId, "status", req.Msg.Status)

	status := models.PaymentStatus(req.Msg.Status)
	if status != "" && !status.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid status %q", req.Msg.Status))
	}

	group, err := memberGroup(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}

	payments, err := s.store.ListPayments(ctx, group.ID)
	if err != nil {
		slog.Error("ListPayments failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	apiPayments := make([]*api.Payment, 0, len(payments))
	for _, p := range payments {
		if status == "" || p.Status == status {
			apiPayments = append(apiPayments, toAPIPayment(p))
		}
	}

	slog.Info("ListPayments successful", "group_id", group.ID, "count", len(apiPayments))
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: apiPayments}), nil
}

// GetPaymentQR renders a UPI QR code for paying a member. The payee must have
// a UPI ID on their profile.
func (s *PaymentService) GetPaymentQR(ctx context.Context, req *connect.Request[api.GetPaymentQRRequest]) (*connect.Response[api.GetPaymentQRResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetPaymentQR request received", "group_id", req.Msg.GroupId, "to_id", req.Msg.ToId)

	amount, err := parseAmount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	group, err := memberGroup(ctx, s.store, req.Msg.GroupId, userID)
	if err != nil {
		return nil, err
	}
	payee, ok := group.Member(req.Msg.ToId)
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("payee %q is not a member of this group", req.Msg.ToId))
	}

	user, err := s.store.GetUserByID(ctx, payee.UserID)
	if err != nil {
		return nil, storeError(err)
	}
	if user.UPIID == "" {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("%s has not set a UPI ID", payee.Name))
	}

	link, image, err := qrcode.GenerateUPI(user.UPIID, payee.Name, amount)
	if err != nil {
		slog.Error("GetPaymentQR failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("GetPaymentQR successful", "group_id", group.ID, "to_id", payee.UserID, "bytes", len(image))
	return connect.NewResponse(&api.GetPaymentQRResponse{
		UpiLink:     link,
		Image:       image,
		ContentType: qrcode.ContentType,
	}), nil
}
