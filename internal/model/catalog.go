package model

import (
	"github.com/google/uuid"
)

type Category struct {
	Base
	Name        string `db:"name" json:"name"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description,omitempty"`
}

type Service struct {
	Base
	CategoryID  uuid.UUID `db:"category_id" json:"category_id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description,omitempty"`
	Price       int64     `db:"price" json:"price"` // minor currency units
	DurationMin int       `db:"duration_min" json:"duration_min"`
	Active      bool      `db:"active" json:"active"`
}

type Tag struct {
	Base
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

type CreateServiceRequest struct {
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=160"`
	Slug        string    `json:"slug" binding:"required,max=160"`
	Description string    `json:"description" binding:"max=4000"`
	Price       int64     `json:"price" binding:"required,gte=0"`
	DurationMin int       `json:"duration_min" binding:"gte=0"`
	Active      *bool     `json:"active"`
}

type UpdateServiceRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        *string    `json:"name"`
	Slug        *string    `json:"slug"`
	Description *string    `json:"description"`
	Price       *int64     `json:"price"`
	DurationMin *int       `json:"duration_min"`
	Active      *bool      `json:"active"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=160"`
	Slug        string `json:"slug" binding:"required,max=160"`
	Description string `json:"description" binding:"max=4000"`
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required,max=80"`
	Slug string `json:"slug" binding:"required,max=80"`
}

type ServiceFilters struct {
	CategoryID uuid.UUID
	ActiveOnly bool
	Search     string
	Pagination
}
