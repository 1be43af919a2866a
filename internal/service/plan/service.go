package plan

import (
	"context"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type Service struct {
	repo repository.PlanRepository
}

func NewService(repo repository.PlanRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePlanRequest) (*model.Plan, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	plan := &model.Plan{
		Name:     req.Name,
		Slug:     req.Slug,
		Price:    req.Price,
		Interval: req.Interval,
		Features: req.Features,
		Active:   active,
	}
	plan.ID = uuid.New()

	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePlanRequest) (*model.Plan, error) {
	plan, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.Features != nil {
		plan.Features = req.Features
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*model.Plan, error) {
	return s.repo.List(ctx, activeOnly)
}

// Subscribe creates an active subscription. A user holds at most one
// active subscription at a time.
func (s *Service) Subscribe(ctx context.Context, userID, planID uuid.UUID) (*model.Subscription, error) {
	plan, err := s.repo.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, apperrors.Conflict("plan is not available")
	}

	existing, err := s.repo.GetActiveSubscription(ctx, userID)
	if err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("user already has an active subscription")
	}

	sub := &model.Subscription{
		UserID: userID,
		PlanID: planID,
		Status: model.SubscriptionStatusActive,
	}
	sub.ID = uuid.New()

	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) GetSubscription(ctx context.Context, userID uuid.UUID) (*model.Subscription, error) {
	return s.repo.GetActiveSubscription(ctx, userID)
}

func (s *Service) CancelSubscription(ctx context.Context, userID uuid.UUID) (*model.Subscription, error) {
	sub, err := s.repo.GetActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub.Status = model.SubscriptionStatusCancelled
	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
