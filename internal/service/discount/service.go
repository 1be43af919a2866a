package discount

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type Service struct {
	repo repository.DiscountRepository
}

func NewService(repo repository.DiscountRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDiscountRequest) (*model.Discount, error) {
	if req.Type == model.DiscountTypePercent && req.Value > 100 {
		return nil, apperrors.InvalidArgument("percent discount cannot exceed 100")
	}
	if !req.ValidTo.After(req.ValidFrom) {
		return nil, apperrors.InvalidArgument("valid_to must be after valid_from")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	discount := &model.Discount{
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:      req.Type,
		Value:     req.Value,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		MaxUses:   req.MaxUses,
		Active:    active,
	}
	discount.ID = uuid.New()

	if err := s.repo.Create(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDiscountRequest) (*model.Discount, error) {
	discount, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Value != nil {
		if discount.Type == model.DiscountTypePercent && *req.Value > 100 {
			return nil, apperrors.InvalidArgument("percent discount cannot exceed 100")
		}
		discount.Value = *req.Value
	}
	if req.ValidFrom != nil {
		discount.ValidFrom = *req.ValidFrom
	}
	if req.ValidTo != nil {
		discount.ValidTo = *req.ValidTo
	}
	if !discount.ValidTo.After(discount.ValidFrom) {
		return nil, apperrors.InvalidArgument("valid_to must be after valid_from")
	}
	if req.MaxUses != nil {
		discount.MaxUses = *req.MaxUses
	}
	if req.Active != nil {
		discount.Active = *req.Active
	}

	if err := s.repo.Update(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Discount, error) {
	return s.repo.List(ctx)
}

// Validate quotes a code against an amount without consuming a use.
func (s *Service) Validate(ctx context.Context, code string, amount int64) (*model.DiscountQuote, error) {
	discount, err := s.lookupUsable(ctx, code)
	if err != nil {
		return nil, err
	}
	return quote(discount, amount), nil
}

// Redeem consumes one use of the code and returns the resulting quote.
func (s *Service) Redeem(ctx context.Context, code string, amount int64) (*model.DiscountQuote, error) {
	discount, err := s.lookupUsable(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementUse(ctx, discount.ID); err != nil {
		return nil, err
	}
	return quote(discount, amount), nil
}

func (s *Service) lookupUsable(ctx context.Context, code string) (*model.Discount, error) {
	discount, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch {
	case !discount.Active:
		return nil, apperrors.Conflict("discount code is inactive")
	case now.Before(discount.ValidFrom):
		return nil, apperrors.Conflict("discount code is not yet valid")
	case now.After(discount.ValidTo):
		return nil, apperrors.Conflict("discount code has expired")
	case discount.MaxUses > 0 && discount.UsedCount >= discount.MaxUses:
		return nil, apperrors.Conflict("discount code is exhausted")
	}
	return discount, nil
}

func quote(d *model.Discount, amount int64) *model.DiscountQuote {
	var off int64
	switch d.Type {
	case model.DiscountTypePercent:
		off = amount * d.Value / 100
	case model.DiscountTypeFixed:
		off = d.Value
	}
	if off > amount {
		off = amount
	}
	return &model.DiscountQuote{
		Code:           d.Code,
		DiscountAmount: off,
		FinalAmount:    amount - off,
	}
}
