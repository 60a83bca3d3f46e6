package models

import "time"

// CalendarConnection stores the OAuth token of an external calendar the
// host linked for busy-time lookups.
type CalendarConnection struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Provider   string `gorm:"size:20;default:'google'" json:"provider"`
	CalendarID string `gorm:"size:255;default:'primary'" json:"calendar_id"`
	TokenJSON  string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
