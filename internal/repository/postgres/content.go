package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

func (r *contentRepository) Create(ctx context.Context, page *model.ContentPage) error {
	query := `
		INSERT INTO content_pages (id, slug, title, body, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	page.CreatedAt = time.Now()
	page.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		page.ID, page.Slug, page.Title, page.Body, page.Published,
		page.CreatedAt, page.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("page slug already exists")
		}
		return fmt.Errorf("failed to create content page: %w", err)
	}
	return nil
}

func (r *contentRepository) Get(ctx context.Context, id uuid.UUID) (*model.ContentPage, error) {
	query := `
		SELECT id, slug, title, body, published, created_at, updated_at, deleted_at
		FROM content_pages
		WHERE id = $1 AND deleted_at IS NULL
	`
	var page model.ContentPage
	err := r.db.GetContext(ctx, &page, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("page")
		}
		return nil, fmt.Errorf("failed to get content page: %w", err)
	}
	return &page, nil
}

func (r *contentRepository) GetBySlug(ctx context.Context, slug string) (*model.ContentPage, error) {
	query := `
		SELECT id, slug, title, body, published, created_at, updated_at, deleted_at
		FROM content_pages
		WHERE slug = $1 AND deleted_at IS NULL
	`
	var page model.ContentPage
	err := r.db.GetContext(ctx, &page, query, slug)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("page")
		}
		return nil, fmt.Errorf("failed to get content page by slug: %w", err)
	}
	return &page, nil
}

func (r *contentRepository) Update(ctx context.Context, page *model.ContentPage) error {
	query := `
		UPDATE content_pages
		SET title = $1, body = $2, published = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`
	page.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		page.Title, page.Body, page.Published, page.UpdatedAt, page.ID)
	if err != nil {
		return fmt.Errorf("failed to update content page: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("page")
	}

	return nil
}

func (r *contentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE content_pages SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete content page: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("page")
	}

	return nil
}

func (r *contentRepository) List(ctx context.Context, publishedOnly bool) ([]*model.ContentPage, error) {
	query := `
		SELECT id, slug, title, body, published, created_at, updated_at, deleted_at
		FROM content_pages
		WHERE deleted_at IS NULL
	`
	if publishedOnly {
		query += " AND published = true"
	}
	query += " ORDER BY title ASC"

	var pages []*model.ContentPage
	err := r.db.SelectContext(ctx, &pages, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list content pages: %w", err)
	}
	return pages, nil
}
