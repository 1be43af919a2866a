package model

type ContentPage struct {
	Base
	Slug      string `db:"slug" json:"slug"`
	Title     string `db:"title" json:"title"`
	Body      string `db:"body" json:"body"`
	Published bool   `db:"published" json:"published"`
}

type CreateContentRequest struct {
	Slug      string `json:"slug" binding:"required,max=160"`
	Title     string `json:"title" binding:"required,max=200"`
	Body      string `json:"body" binding:"required"`
	Published *bool  `json:"published"`
}

type UpdateContentRequest struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	Published *bool   `json:"published"`
}
