package model

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	Base
	BookingID  uuid.UUID     `db:"booking_id" json:"booking_id"`
	CustomerID uuid.UUID     `db:"customer_id" json:"customer_id"`
	Amount     int64         `db:"amount" json:"amount"`
	Currency   string        `db:"currency" json:"currency"`
	Status     PaymentStatus `db:"status" json:"status"`
	GatewayRef string        `db:"gateway_ref" json:"gateway_ref,omitempty"`
}

// WebhookEventType enumerates the three gateway events the receiver
// understands.
type WebhookEventType string

const (
	WebhookPaymentCompleted WebhookEventType = "payment.completed"
	WebhookPaymentFailed    WebhookEventType = "payment.failed"
	WebhookPaymentRefunded  WebhookEventType = "payment.refunded"
)

type WebhookEvent struct {
	Type       WebhookEventType `json:"type"`
	PaymentID  uuid.UUID        `json:"payment_id"`
	GatewayRef string           `json:"gateway_ref"`
	Amount     int64            `json:"amount"`
}
