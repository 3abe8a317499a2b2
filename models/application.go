package models

import (
	"time"

	"github.com/google/uuid"
)

// Application status values.
const (
	ApplicationApplied     = "applied"
	ApplicationUnderReview = "under_review"
	ApplicationApproved    = "approved"
	ApplicationRejected    = "rejected"
	ApplicationAllotted    = "allotted"
	ApplicationNotAllotted = "not_allotted"
)

// ValidApplicationStatuses lists the accepted application status values.
var ValidApplicationStatuses = []string{
	ApplicationApplied,
	ApplicationUnderReview,
	ApplicationApproved,
	ApplicationRejected,
	ApplicationAllotted,
	ApplicationNotAllotted,
}

// Application is a user's allotment request for one IPO. The (user, ipo)
// pair is unique; duplicates are rejected by the store constraint.
type Application struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	IPOID           uuid.UUID `json:"ipo_id"`
	Status          string    `json:"status"`
	QuantityApplied int       `json:"quantity_applied"`
	Remarks         string    `json:"remarks"`
	AppliedAt       time.Time `json:"applied_at"`

	// Joined for listings.
	CompanyName string `json:"company_name,omitempty"`
	Username    string `json:"username,omitempty"`
}

// IsValidApplicationStatus reports whether status is an accepted value.
func IsValidApplicationStatus(status string) bool {
	for _, s := range ValidApplicationStatuses {
		if status == s {
			return true
		}
	}
	return false
}
