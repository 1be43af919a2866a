package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type Service struct {
	repo repository.CatalogRepository
}

func NewService(repo repository.CatalogRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	if _, err := s.repo.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	svc := &model.Service{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		DurationMin: req.DurationMin,
		Active:      active,
	}
	svc.ID = uuid.New()

	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	return s.repo.GetService(ctx, id)
}

func (s *Service) GetServiceBySlug(ctx context.Context, slug string) (*model.Service, error) {
	return s.repo.GetServiceBySlug(ctx, slug)
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		svc.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Slug != nil {
		svc.Slug = *req.Slug
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := s.repo.UpdateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteService(ctx, id)
}

func (s *Service) ListServices(ctx context.Context, filters *model.ServiceFilters) ([]*model.Service, error) {
	return s.repo.ListServices(ctx, filters)
}

func (s *Service) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	cat := &model.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	cat.ID = uuid.New()

	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, req *model.CreateCategoryRequest) (*model.Category, error) {
	cat, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	cat.Name = req.Name
	cat.Slug = req.Slug
	cat.Description = req.Description

	if err := s.repo.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory refuses to remove a category that still has services.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountServicesInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("category still has services")
	}
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateTag(ctx context.Context, req *model.CreateTagRequest) (*model.Tag, error) {
	tag := &model.Tag{Name: req.Name, Slug: req.Slug}
	tag.ID = uuid.New()

	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *Service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTag(ctx, id)
}

func (s *Service) ListTags(ctx context.Context) ([]*model.Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *Service) TagService(ctx context.Context, serviceID, tagID uuid.UUID) error {
	if _, err := s.repo.GetService(ctx, serviceID); err != nil {
		return err
	}
	return s.repo.TagService(ctx, serviceID, tagID)
}

func (s *Service) UntagService(ctx context.Context, serviceID, tagID uuid.UUID) error {
	return s.repo.UntagService(ctx, serviceID, tagID)
}

func (s *Service) ListServiceTags(ctx context.Context, serviceID uuid.UUID) ([]*model.Tag, error) {
	return s.repo.ListServiceTags(ctx, serviceID)
}
