package dto

import "time"

type BookingListDTO struct {
	ID            uint      `json:"id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	EventTypeName string    `json:"event_type_name"`
	Notes         string    `json:"notes"`
}
