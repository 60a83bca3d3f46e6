package models

import "time"

// EventType determines the slot length and whether the host must approve
// a booking request before it becomes a booking.
type EventType struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Slug        string `gorm:"size:100" json:"slug"`
	Description string `gorm:"size:255" json:"description"`

	DurationMin          int  `json:"duration_min"`
	RequiresConfirmation bool `json:"requires_confirmation"`
	Active               bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
