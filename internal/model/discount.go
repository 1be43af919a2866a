package model

import (
	"time"
)

type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeFixed   DiscountType = "fixed"
)

type Discount struct {
	Base
	Code      string       `db:"code" json:"code"`
	Type      DiscountType `db:"type" json:"type"`
	Value     int64        `db:"value" json:"value"` // percent (0-100) or minor units
	ValidFrom time.Time    `db:"valid_from" json:"valid_from"`
	ValidTo   time.Time    `db:"valid_to" json:"valid_to"`
	MaxUses   int          `db:"max_uses" json:"max_uses"` // 0 = unlimited
	UsedCount int          `db:"used_count" json:"used_count"`
	Active    bool         `db:"active" json:"active"`
}

type CreateDiscountRequest struct {
	Code      string       `json:"code" binding:"required,max=64"`
	Type      DiscountType `json:"type" binding:"required,oneof=percent fixed"`
	Value     int64        `json:"value" binding:"required,gt=0"`
	ValidFrom time.Time    `json:"valid_from" binding:"required"`
	ValidTo   time.Time    `json:"valid_to" binding:"required"`
	MaxUses   int          `json:"max_uses" binding:"gte=0"`
	Active    *bool        `json:"active"`
}

type UpdateDiscountRequest struct {
	Value     *int64     `json:"value"`
	ValidFrom *time.Time `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`
	MaxUses   *int       `json:"max_uses"`
	Active    *bool      `json:"active"`
}

// DiscountQuote is the public validation result for a code applied to
// an amount.
type DiscountQuote struct {
	Code           string `json:"code"`
	DiscountAmount int64  `json:"discount_amount"`
	FinalAmount    int64  `json:"final_amount"`
}
