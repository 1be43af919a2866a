package model

import (
	"time"
)

// BusinessHour holds the per-weekday open/close configuration.
// Weekday follows time.Weekday: 0 = Sunday. At most one row per weekday.
type BusinessHour struct {
	Base
	Weekday   int    `db:"weekday" json:"weekday"`
	OpenTime  string `db:"open_time" json:"open_time"`   // "HH:MM"
	CloseTime string `db:"close_time" json:"close_time"` // "HH:MM"
	Closed    bool   `db:"closed" json:"closed"`
}

// Holiday marks a calendar date fully unbookable regardless of the
// weekday configuration.
type Holiday struct {
	Base
	Date time.Time `db:"date" json:"date"`
	Name string    `db:"name" json:"name,omitempty"`
}

// BusinessHoursWindow is the open/close pair echoed back on
// availability responses.
type BusinessHoursWindow struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// AvailabilityResult is the derived view returned by the availability
// endpoint. It is recomputed on every request and never persisted.
type AvailabilityResult struct {
	IsAvailable    bool                 `json:"isAvailable"`
	AvailableSlots []string             `json:"availableSlots"`
	BusinessHours  *BusinessHoursWindow `json:"businessHours,omitempty"`
	Reason         string               `json:"reason,omitempty"`
}

type UpsertBusinessHourRequest struct {
	Weekday   int    `json:"weekday" binding:"gte=0,lte=6"`
	OpenTime  string `json:"open_time" binding:"required,timeofday"`
	CloseTime string `json:"close_time" binding:"required,timeofday"`
	Closed    bool   `json:"closed"`
}

type CreateHolidayRequest struct {
	Date string `json:"date" binding:"required,dateonly"`
	Name string `json:"name" binding:"max=160"`
}
