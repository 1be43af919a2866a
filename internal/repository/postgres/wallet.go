package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

func (r *walletRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at, deleted_at
		FROM wallets
		WHERE user_id = $1 AND deleted_at IS NULL
	`
	var wallet model.Wallet
	err := r.db.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("wallet")
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) CreateForUser(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	now := time.Now()
	wallet := &model.Wallet{
		UserID:  userID,
		Balance: 0,
	}
	wallet.ID = uuid.New()
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	query := `
		INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		wallet.ID, wallet.UserID, wallet.Balance, wallet.CreatedAt, wallet.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	// Another request may have won the insert; read back the real row.
	return r.GetByUser(ctx, userID)
}

func (r *walletRepository) Adjust(ctx context.Context, walletID uuid.UUID, wtx *model.WalletTransaction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	delta := wtx.Amount
	if wtx.Type == model.WalletTxDebit {
		delta = -delta
	}

	// The balance guard runs inside the update so concurrent debits
	// cannot race past zero.
	result, err := tx.ExecContext(ctx, `
		UPDATE wallets SET balance = balance + $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL AND balance + $1 >= 0
	`, delta, now, walletID)
	if err != nil {
		return fmt.Errorf("failed to adjust wallet balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `
			SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1 AND deleted_at IS NULL)
		`, walletID); err != nil {
			return fmt.Errorf("failed to check wallet: %w", err)
		}
		if !exists {
			return apperrors.NotFound("wallet")
		}
		return apperrors.InvalidArgument("insufficient wallet balance")
	}

	wtx.ID = uuid.New()
	wtx.WalletID = walletID
	wtx.CreatedAt = now
	wtx.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (id, wallet_id, type, amount, reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, wtx.ID, wtx.WalletID, wtx.Type, wtx.Amount, wtx.Reference, wtx.CreatedAt, wtx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to record wallet transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID) ([]*model.WalletTransaction, error) {
	query := `
		SELECT id, wallet_id, type, amount, reference, created_at, updated_at, deleted_at
		FROM wallet_transactions
		WHERE wallet_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	var txs []*model.WalletTransaction
	err := r.db.SelectContext(ctx, &txs, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txs, nil
}
