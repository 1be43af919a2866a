package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (
			id, booking_id, customer_id, amount, currency, status,
			gateway_ref, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.CustomerID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.GatewayRef,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := `
		SELECT id, booking_id, customer_id, amount, currency, status,
			   gateway_ref, created_at, updated_at, deleted_at
		FROM payments
		WHERE id = $1 AND deleted_at IS NULL
	`
	var payment model.Payment
	err := r.db.GetContext(ctx, &payment, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("payment")
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) GetByGatewayRef(ctx context.Context, ref string) (*model.Payment, error) {
	query := `
		SELECT id, booking_id, customer_id, amount, currency, status,
			   gateway_ref, created_at, updated_at, deleted_at
		FROM payments
		WHERE gateway_ref = $1 AND deleted_at IS NULL
	`
	var payment model.Payment
	err := r.db.GetContext(ctx, &payment, query, ref)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("payment")
		}
		return nil, fmt.Errorf("failed to get payment by gateway ref: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, customerID uuid.UUID) ([]*model.Payment, error) {
	query := `
		SELECT id, booking_id, customer_id, amount, currency, status,
			   gateway_ref, created_at, updated_at, deleted_at
		FROM payments
		WHERE customer_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	var payments []*model.Payment
	err := r.db.SelectContext(ctx, &payments, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) MarkCompleted(ctx context.Context, paymentID uuid.UUID, gatewayRef string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE payments SET status = $1, gateway_ref = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`, model.PaymentStatusCompleted, gatewayRef, now, paymentID)
	if err != nil {
		return fmt.Errorf("failed to mark payment completed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("payment")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE bookings SET status = $1, updated_at = $2
		WHERE id = (SELECT booking_id FROM payments WHERE id = $3)
		AND status = $4 AND deleted_at IS NULL
	`, model.BookingStatusConfirmed, now, paymentID, model.BookingStatusPending)
	if err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *paymentRepository) MarkFailed(ctx context.Context, paymentID uuid.UUID, gatewayRef string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status = $1, gateway_ref = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`, model.PaymentStatusFailed, gatewayRef, time.Now(), paymentID)
	if err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("payment")
	}
	return nil
}

func (r *paymentRepository) MarkRefunded(ctx context.Context, paymentID uuid.UUID, gatewayRef string, amount int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	var customerID uuid.UUID
	err = tx.GetContext(ctx, &customerID, `
		SELECT customer_id FROM payments WHERE id = $1 AND deleted_at IS NULL
	`, paymentID)
	if err != nil {
		if isNoRows(err) {
			return apperrors.NotFound("payment")
		}
		return fmt.Errorf("failed to get payment: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE payments SET status = $1, gateway_ref = $2, updated_at = $3
		WHERE id = $4
	`, model.PaymentStatusRefunded, gatewayRef, now, paymentID)
	if err != nil {
		return fmt.Errorf("failed to mark payment refunded: %w", err)
	}

	// Refunds land in the customer's wallet; the wallet row is created
	// lazily on first use.
	var walletID uuid.UUID
	err = tx.GetContext(ctx, &walletID, `
		INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id
	`, uuid.New(), customerID, now)
	if err != nil {
		return fmt.Errorf("failed to resolve wallet: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE wallets SET balance = balance + $1, updated_at = $2 WHERE id = $3
	`, amount, now, walletID)
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (id, wallet_id, type, amount, reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, uuid.New(), walletID, model.WalletTxCredit, amount, fmt.Sprintf("refund:%s", paymentID), now)
	if err != nil {
		return fmt.Errorf("failed to record wallet transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
