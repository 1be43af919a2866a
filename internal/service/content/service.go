package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type Service struct {
	repo repository.ContentRepository
}

func NewService(repo repository.ContentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateContentRequest) (*model.ContentPage, error) {
	published := false
	if req.Published != nil {
		published = *req.Published
	}

	page := &model.ContentPage{
		Slug:      req.Slug,
		Title:     req.Title,
		Body:      req.Body,
		Published: published,
	}
	page.ID = uuid.New()

	if err := s.repo.Create(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.ContentPage, error) {
	return s.repo.Get(ctx, id)
}

// GetPublishedBySlug serves the public read path; drafts are invisible.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (*model.ContentPage, error) {
	page, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !page.Published {
		return nil, apperrors.NotFound("page")
	}
	return page, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateContentRequest) (*model.ContentPage, error) {
	page, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Body != nil {
		page.Body = *req.Body
	}
	if req.Published != nil {
		page.Published = *req.Published
	}

	if err := s.repo.Update(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, publishedOnly bool) ([]*model.ContentPage, error) {
	return s.repo.List(ctx, publishedOnly)
}
