package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	HostID uint `gorm:"index" json:"host_id"`
	Host   User `gorm:"foreignKey:HostID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	EventTypeID uint      `json:"event_type_id"`
	EventType   EventType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"event_type"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:100" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`

	Notes        string     `gorm:"size:255" json:"notes"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
