package models

import "time"

// BookingRequest is a time-boxed hold created through the public two-step
// confirmation flow. It never turns into a Booking without passing through
// the state machine in domain/schedule.
type BookingRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	HostID uint `gorm:"index" json:"host_id"`
	Host   User `gorm:"foreignKey:HostID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	EventTypeID uint      `json:"event_type_id"`
	EventType   EventType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"event_type"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:100" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:30;default:'pending';index" json:"status"`

	ConfirmationToken string    `gorm:"size:64;uniqueIndex" json:"-"`
	ExpiresAt         time.Time `json:"expires_at"`

	ApprovalToken     string     `gorm:"size:64;index" json:"-"`
	ApprovalExpiresAt *time.Time `json:"approval_expires_at"`

	Notes        string `gorm:"size:255" json:"notes"`
	CancelReason string `gorm:"size:255" json:"cancel_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
