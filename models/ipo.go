package models

import (
	"time"

	"github.com/google/uuid"
)

// IPO status values. Transitions nominally follow upcoming -> ongoing ->
// listed, but the status is operator-set and not enforced as a state machine.
const (
	StatusUpcoming = "upcoming"
	StatusOngoing  = "ongoing"
	StatusListed   = "listed"
)

// Issue types are matched case-sensitively on import.
const (
	IssueTypeBookBuilt  = "Book Built Issue"
	IssueTypeFixedPrice = "Fixed Price Issue"
	IssueTypeSME        = "SME IPO"
)

// ValidStatuses lists the accepted IPO status values, lowercase.
var ValidStatuses = []string{StatusUpcoming, StatusOngoing, StatusListed}

// ValidIssueTypes lists the accepted issue type values.
var ValidIssueTypes = []string{IssueTypeBookBuilt, IssueTypeFixedPrice, IssueTypeSME}

type IPO struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name" validate:"required,max=255"`
	PriceBand   string    `json:"price_band" validate:"max=100"`

	OpenDate    *time.Time `json:"open_date"`
	CloseDate   *time.Time `json:"close_date"`
	ListingDate *time.Time `json:"listing_date"`

	IssueSize string `json:"issue_size" validate:"max=100"`
	IssueType string `json:"issue_type" validate:"required,oneof='Book Built Issue' 'Fixed Price Issue' 'SME IPO'"`
	Status    string `json:"status" validate:"required,oneof=upcoming ongoing listed"`

	IPOPrice           *float64 `json:"ipo_price" validate:"omitempty,gte=0"`
	ListingPrice       *float64 `json:"listing_price" validate:"omitempty,gte=0"`
	CurrentMarketPrice *float64 `json:"current_market_price" validate:"omitempty,gte=0"`

	LotSize          *int     `json:"lot_size"`
	SubscriptionRate *float64 `json:"subscription_rate"`

	LogoURL *string `json:"logo_url"`
	RHPURL  *string `json:"rhp_url"`
	DRHPURL *string `json:"drhp_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidStatus reports whether status is one of the accepted lowercase values.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// IsValidIssueType reports whether issueType matches an accepted value exactly.
func IsValidIssueType(issueType string) bool {
	for _, t := range ValidIssueTypes {
		if issueType == t {
			return true
		}
	}
	return false
}

// IPOFilter narrows IPO listing queries. Zero values mean no filtering.
type IPOFilter struct {
	Status    string
	Search    string
	IssueType []string
	DateFrom  *time.Time
	DateTo    *time.Time
}
