package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Mdazar123/billsplitr/internal/models"
	"github.com/Mdazar123/billsplitr/internal/storage"
)

const paymentColumns = `id, group_id, from_id, from_name, to_id, to_name, amount, proof_url, status, created_at, accepted_at`

// CreatePayment persists a new payment. Status defaults to pending.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	// Generate ID if not set
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.GroupID, payment.FromID, payment.From, payment.ToID, payment.To,
		payment.Amount, payment.ProofURL, string(payment.Status), payment.CreatedAt, payment.AcceptedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment, err := scanPayment(s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`,
		paymentID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPayments retrieves all payments for a group, newest first.
func (s *SQLiteStore) ListPayments(ctx context.Context, groupID string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE group_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by group: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// AcceptPayment marks a pending payment as accepted.
func (s *SQLiteStore) AcceptPayment(ctx context.Context, paymentID string, acceptedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE payments SET status = ?, accepted_at = ? WHERE id = ? AND status = ?",
		string(models.PaymentAccepted), acceptedAt, paymentID, string(models.PaymentPending),
	)
	if err != nil {
		return fmt.Errorf("failed to accept payment: %w", err)
	}
	return expectOneRow(res, "pending payment", paymentID)
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	payment := &models.Payment{}
	var status string
	err := row.Scan(
		&payment.ID, &payment.GroupID, &payment.FromID, &payment.From, &payment.ToID, &payment.To,
		&payment.Amount, &payment.ProofURL, &status, &payment.CreatedAt, &payment.AcceptedAt,
	)
	if err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatus(status)
	return payment, nil
}
