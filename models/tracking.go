package models

import (
	"time"

	"github.com/google/uuid"
)

// Tracking is a user's watchlist entry for one IPO, unique per (user, ipo).
type Tracking struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	IPOID     uuid.UUID `json:"ipo_id"`
	TrackedAt time.Time `json:"tracked_at"`

	CompanyName string `json:"company_name,omitempty"`
}
