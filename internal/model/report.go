package model

import (
	"time"
)

// BookingStatusCount is one row of the bookings-per-status report.
type BookingStatusCount struct {
	Status BookingStatus `db:"status" json:"status"`
	Count  int64         `db:"count" json:"count"`
}

// RevenuePoint is one period bucket of the revenue report.
type RevenuePoint struct {
	Period  time.Time `db:"period" json:"period"`
	Revenue int64     `db:"revenue" json:"revenue"`
}

// ServiceBookingCount ranks services by booking volume.
type ServiceBookingCount struct {
	ServiceID   string `db:"service_id" json:"service_id"`
	ServiceName string `db:"service_name" json:"service_name"`
	Count       int64  `db:"count" json:"count"`
}

type ReportFilters struct {
	From time.Time
	To   time.Time
}
