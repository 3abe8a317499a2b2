package models

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is a user-scheduled alert tied to one IPO, unique per (user, ipo).
// Deleting a reminder only clears IsActive; the row remains as history.
type Reminder struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	IPOID        uuid.UUID `json:"ipo_id"`
	ReminderDate time.Time `json:"reminder_date"`
	ReminderTime string    `json:"reminder_time"`
	Message      string    `json:"message"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`

	CompanyName string `json:"company_name,omitempty"`
}
