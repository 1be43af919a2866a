package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Occupies reports whether a booking in this status blocks its slot.
func (s BookingStatus) Occupies() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	Base
	ServiceID    uuid.UUID     `db:"service_id" json:"service_id"`
	CustomerID   uuid.UUID     `db:"customer_id" json:"customer_id"`
	Date         time.Time     `db:"date" json:"date"`
	Time         string        `db:"time" json:"time"` // "HH:MM", slot start
	Status       BookingStatus `db:"status" json:"status"`
	VehicleMake  string        `db:"vehicle_make" json:"vehicle_make,omitempty"`
	VehicleModel string        `db:"vehicle_model" json:"vehicle_model,omitempty"`
	VehiclePlate string        `db:"vehicle_plate" json:"vehicle_plate,omitempty"`
	Notes        string        `db:"notes" json:"notes,omitempty"`
	CancelReason *string       `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateBookingRequest struct {
	ServiceID    uuid.UUID `json:"service_id" binding:"required"`
	Date         string    `json:"date" binding:"required,dateonly"`
	Time         string    `json:"time" binding:"required,timeofday"`
	VehicleMake  string    `json:"vehicle_make" binding:"max=80"`
	VehicleModel string    `json:"vehicle_model" binding:"max=80"`
	VehiclePlate string    `json:"vehicle_plate" binding:"max=20"`
	Notes        string    `json:"notes" binding:"max=1000"`
	DiscountCode string    `json:"discount_code" binding:"max=40"`
}

type BookingFilters struct {
	ServiceID  uuid.UUID
	CustomerID uuid.UUID
	Status     BookingStatus
	DateFrom   time.Time
	DateTo     time.Time
	Pagination
}
