package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

func (r *catalogRepository) CreateService(ctx context.Context, svc *model.Service) error {
	query := `
		INSERT INTO services (
			id, category_id, name, slug, description, price,
			duration_min, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		svc.ID,
		svc.CategoryID,
		svc.Name,
		svc.Slug,
		svc.Description,
		svc.Price,
		svc.DurationMin,
		svc.Active,
		svc.CreatedAt,
		svc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("service slug already exists")
		}
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, category_id, name, slug, description, price,
			   duration_min, active, created_at, updated_at, deleted_at
		FROM services
		WHERE id = $1 AND deleted_at IS NULL
	`
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFoundMsg("Service not found")
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

func (r *catalogRepository) GetServiceBySlug(ctx context.Context, slug string) (*model.Service, error) {
	query := `
		SELECT id, category_id, name, slug, description, price,
			   duration_min, active, created_at, updated_at, deleted_at
		FROM services
		WHERE slug = $1 AND deleted_at IS NULL
	`
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, query, slug)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFoundMsg("Service not found")
		}
		return nil, fmt.Errorf("failed to get service by slug: %w", err)
	}
	return &svc, nil
}

func (r *catalogRepository) UpdateService(ctx context.Context, svc *model.Service) error {
	query := `
		UPDATE services
		SET category_id = $1, name = $2, slug = $3, description = $4,
			price = $5, duration_min = $6, active = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`
	svc.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		svc.CategoryID,
		svc.Name,
		svc.Slug,
		svc.Description,
		svc.Price,
		svc.DurationMin,
		svc.Active,
		svc.UpdatedAt,
		svc.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("service slug already exists")
		}
		return fmt.Errorf("failed to update service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFoundMsg("Service not found")
	}

	return nil
}

func (r *catalogRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE services SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFoundMsg("Service not found")
	}

	return nil
}

func (r *catalogRepository) ListServices(ctx context.Context, filters *model.ServiceFilters) ([]*model.Service, error) {
	query := `
		SELECT id, category_id, name, slug, description, price,
			   duration_min, active, created_at, updated_at, deleted_at
		FROM services
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}
	argCount := 1

	if filters.CategoryID != uuid.Nil {
		query += fmt.Sprintf(" AND category_id = $%d", argCount)
		args = append(args, filters.CategoryID)
		argCount++
	}

	if filters.ActiveOnly {
		query += " AND active = true"
	}

	if filters.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argCount)
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}

	filters.Normalize()
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.PageSize, filters.Offset())

	var services []*model.Service
	err := r.db.SelectContext(ctx, &services, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, cat *model.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	cat.CreatedAt = time.Now()
	cat.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.CreatedAt, cat.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("category slug already exists")
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at, deleted_at
		FROM categories
		WHERE id = $1 AND deleted_at IS NULL
	`
	var cat model.Category
	err := r.db.GetContext(ctx, &cat, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("category")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, cat *model.Category) error {
	query := `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`
	cat.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		cat.Name, cat.Slug, cat.Description, cat.UpdatedAt, cat.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("category slug already exists")
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("category")
	}

	return nil
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE categories SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("category")
	}

	return nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at, deleted_at
		FROM categories
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`
	var cats []*model.Category
	err := r.db.SelectContext(ctx, &cats, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return cats, nil
}

func (r *catalogRepository) CountServicesInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*) FROM services
		WHERE category_id = $1 AND deleted_at IS NULL
	`
	var count int64
	err := r.db.GetContext(ctx, &count, query, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to count services in category: %w", err)
	}
	return count, nil
}

func (r *catalogRepository) CreateTag(ctx context.Context, tag *model.Tag) error {
	query := `
		INSERT INTO tags (id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	tag.CreatedAt = time.Now()
	tag.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query, tag.ID, tag.Name, tag.Slug, tag.CreatedAt, tag.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("tag slug already exists")
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

func (r *catalogRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tags WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("tag")
	}

	return nil
}

func (r *catalogRepository) ListTags(ctx context.Context) ([]*model.Tag, error) {
	query := `SELECT id, name, slug, created_at, updated_at, deleted_at FROM tags ORDER BY name ASC`
	var tags []*model.Tag
	err := r.db.SelectContext(ctx, &tags, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (r *catalogRepository) TagService(ctx context.Context, serviceID, tagID uuid.UUID) error {
	query := `
		INSERT INTO service_tags (service_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, serviceID, tagID)
	if err != nil {
		return fmt.Errorf("failed to tag service: %w", err)
	}
	return nil
}

func (r *catalogRepository) UntagService(ctx context.Context, serviceID, tagID uuid.UUID) error {
	query := `DELETE FROM service_tags WHERE service_id = $1 AND tag_id = $2`
	_, err := r.db.ExecContext(ctx, query, serviceID, tagID)
	if err != nil {
		return fmt.Errorf("failed to untag service: %w", err)
	}
	return nil
}

func (r *catalogRepository) ListServiceTags(ctx context.Context, serviceID uuid.UUID) ([]*model.Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug, t.created_at, t.updated_at, t.deleted_at
		FROM tags t
		JOIN service_tags st ON st.tag_id = t.id
		WHERE st.service_id = $1
		ORDER BY t.name ASC
	`
	var tags []*model.Tag
	err := r.db.SelectContext(ctx, &tags, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service tags: %w", err)
	}
	return tags, nil
}
