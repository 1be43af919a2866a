package setting

import (
	"context"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type Service struct {
	repo repository.SettingRepository
}

func NewService(repo repository.SettingRepository) *Service {
	return &Service{repo: repo}
}

// GetPublic serves unauthenticated reads; private keys stay hidden.
func (s *Service) GetPublic(ctx context.Context, key string) (*model.Setting, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !setting.Public {
		return nil, apperrors.NotFound("setting")
	}
	return setting, nil
}

func (s *Service) Get(ctx context.Context, key string) (*model.Setting, error) {
	return s.repo.Get(ctx, key)
}

func (s *Service) Upsert(ctx context.Context, key string, req *model.UpsertSettingRequest) (*model.Setting, error) {
	setting := &model.Setting{
		Key:   key,
		Value: req.Value,
	}
	if req.Public != nil {
		setting.Public = *req.Public
	} else if existing, err := s.repo.Get(ctx, key); err == nil {
		setting.Public = existing.Public
	}

	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

func (s *Service) List(ctx context.Context, publicOnly bool) ([]*model.Setting, error) {
	return s.repo.List(ctx, publicOnly)
}
