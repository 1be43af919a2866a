package wallet

import (
	"context"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type Service struct {
	repo repository.WalletRepository
}

func NewService(repo repository.WalletRepository) *Service {
	return &Service{repo: repo}
}

// GetOrCreate returns the user's wallet, creating an empty one on first
// access.
func (s *Service) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	wallet, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}
	return s.repo.CreateForUser(ctx, userID)
}

func (s *Service) Adjust(ctx context.Context, userID uuid.UUID, req *model.AdjustWalletRequest) (*model.Wallet, error) {
	wallet, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx := &model.WalletTransaction{
		Type:      req.Type,
		Amount:    req.Amount,
		Reference: req.Reference,
	}
	if err := s.repo.Adjust(ctx, wallet.ID, tx); err != nil {
		return nil, err
	}

	return s.repo.GetByUser(ctx, userID)
}

func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*model.WalletTransaction, error) {
	wallet, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, wallet.ID)
}
