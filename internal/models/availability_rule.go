package models

import "time"

// AvailabilityRule is a recurring weekly open-hours window for one host.
// StartTime/EndTime are local wall-clock times ("15:04" or "15:04:05")
// in the host's timezone.
type AvailabilityRule struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Weekday int `json:"weekday"`

	StartTime string `gorm:"size:8" json:"start_time"`
	EndTime   string `gorm:"size:8" json:"end_time"`

	BufferMinutes     int  `json:"buffer_minutes"`
	MaxBookingsPerDay int  `json:"max_bookings_per_day"`
	Active            bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
