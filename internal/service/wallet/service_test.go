package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type fakeWalletRepo struct {
	byUser map[uuid.UUID]*model.Wallet
	ledger map[uuid.UUID][]*model.WalletTransaction
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		byUser: make(map[uuid.UUID]*model.Wallet),
		ledger: make(map[uuid.UUID][]*model.WalletTransaction),
	}
}

func (f *fakeWalletRepo) GetByUser(_ context.Context, userID uuid.UUID) (*model.Wallet, error) {
	w, ok := f.byUser[userID]
	if !ok {
		return nil, apperrors.NotFound("wallet")
	}
	return w, nil
}

func (f *fakeWalletRepo) CreateForUser(_ context.Context, userID uuid.UUID) (*model.Wallet, error) {
	if w, ok := f.byUser[userID]; ok {
		return w, nil
	}
	w := &model.Wallet{UserID: userID}
	w.ID = uuid.New()
	f.byUser[userID] = w
	return w, nil
}

func (f *fakeWalletRepo) Adjust(_ context.Context, walletID uuid.UUID, tx *model.WalletTransaction) error {
	var wallet *model.Wallet
	for _, w := range f.byUser {
		if w.ID == walletID {
			wallet = w
			break
		}
	}
	if wallet == nil {
		return apperrors.NotFound("wallet")
	}

	delta := tx.Amount
	if tx.Type == model.WalletTxDebit {
		delta = -delta
	}
	if wallet.Balance+delta < 0 {
		return apperrors.InvalidArgument("insufficient wallet balance")
	}

	wallet.Balance += delta
	tx.WalletID = walletID
	tx.ID = uuid.New()
	f.ledger[walletID] = append(f.ledger[walletID], tx)
	return nil
}

func (f *fakeWalletRepo) ListTransactions(_ context.Context, walletID uuid.UUID) ([]*model.WalletTransaction, error) {
	return f.ledger[walletID], nil
}

func TestGetOrCreate_CreatesOnFirstAccess(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := NewService(repo)
	userID := uuid.New()

	w, err := svc.GetOrCreate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, w.UserID)
	assert.Equal(t, int64(0), w.Balance)

	again, err := svc.GetOrCreate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
}

func TestAdjust_CreditAndDebit(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := NewService(repo)
	userID := uuid.New()

	w, err := svc.Adjust(context.Background(), userID, &model.AdjustWalletRequest{
		Type:      model.WalletTxCredit,
		Amount:    1000,
		Reference: "promo",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), w.Balance)

	w, err = svc.Adjust(context.Background(), userID, &model.AdjustWalletRequest{
		Type:   model.WalletTxDebit,
		Amount: 400,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(600), w.Balance)

	txs, err := svc.ListTransactions(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestAdjust_RejectsOverdraft(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := NewService(repo)
	userID := uuid.New()

	_, err := svc.Adjust(context.Background(), userID, &model.AdjustWalletRequest{
		Type:   model.WalletTxCredit,
		Amount: 100,
	})
	require.NoError(t, err)

	_, err = svc.Adjust(context.Background(), userID, &model.AdjustWalletRequest{
		Type:   model.WalletTxDebit,
		Amount: 500,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))

	w, err := svc.GetOrCreate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), w.Balance)
}

func TestListTransactions_EmptyWallet(t *testing.T) {
	repo := newFakeWalletRepo()
	svc := NewService(repo)

	txs, err := svc.ListTransactions(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, txs)
}
