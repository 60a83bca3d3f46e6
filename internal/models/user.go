package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Slug         string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Timezone     string `gorm:"size:64" json:"timezone"`

	// Scheduling policy. Zero values fall back to the defaults resolved
	// by the booking use cases (120 min notice, 60 day horizon).
	MinNoticeMinutes   int `gorm:"default:120" json:"min_notice_minutes"`
	BookingHorizonDays int `gorm:"default:60" json:"booking_horizon_days"`

	// DefaultDurationMin is used when an event type does not fix the
	// slot length. BufferOverrideMinutes, when > 0, wins over the
	// per-rule buffer.
	DefaultDurationMin    int `json:"default_duration_min"`
	BufferOverrideMinutes int `json:"buffer_override_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
