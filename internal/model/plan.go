package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PlanInterval string

const (
	PlanIntervalMonth PlanInterval = "month"
	PlanIntervalYear  PlanInterval = "year"
)

type Plan struct {
	Base
	Name     string         `db:"name" json:"name"`
	Slug     string         `db:"slug" json:"slug"`
	Price    int64          `db:"price" json:"price"`
	Interval PlanInterval   `db:"interval" json:"interval"`
	Features pq.StringArray `db:"features" json:"features"`
	Active   bool           `db:"active" json:"active"`
}

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

type Subscription struct {
	Base
	UserID uuid.UUID          `db:"user_id" json:"user_id"`
	PlanID uuid.UUID          `db:"plan_id" json:"plan_id"`
	Status SubscriptionStatus `db:"status" json:"status"`
}

type CreatePlanRequest struct {
	Name     string       `json:"name" binding:"required,max=160"`
	Slug     string       `json:"slug" binding:"required,max=160"`
	Price    int64        `json:"price" binding:"gte=0"`
	Interval PlanInterval `json:"interval" binding:"required,oneof=month year"`
	Features []string     `json:"features"`
	Active   *bool        `json:"active"`
}

type UpdatePlanRequest struct {
	Name     *string  `json:"name"`
	Price    *int64   `json:"price"`
	Features []string `json:"features"`
	Active   *bool    `json:"active"`
}
