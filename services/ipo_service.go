package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const ipoColumns = `id, company_name, price_band, open_date, close_date, listing_date,
              issue_size, issue_type, status, ipo_price, listing_price, current_market_price,
              lot_size, subscription_rate, logo_url, rhp_url, drhp_url, created_at, updated_at`

type IPOService struct {
	DB       *sql.DB
	validate *validator.Validate
	metrics  *shared.ServiceMetrics
}

func NewIPOService(db *sql.DB) *IPOService {
	return &IPOService{
		DB:       db,
		validate: validator.New(),
		metrics:  shared.NewServiceMetrics("ipo-service"),
	}
}

// ValidateIPO runs model-level validation and converts the first failure
// into a field-scoped validation error.
func (s *IPOService) ValidateIPO(ipo *models.IPO) error {
	if err := s.validate.Struct(ipo); err != nil {
		if invalid, ok := err.(*validator.InvalidValidationError); ok {
			return fmt.Errorf("failed to validate IPO: %w", invalid)
		}
		for _, fieldErr := range err.(validator.ValidationErrors) {
			return shared.NewValidationError(
				fmt.Sprintf("invalid value for %s", strings.ToLower(fieldErr.Field())),
				"validate_ipo",
			)
		}
	}
	return nil
}

func scanIPO(row interface{ Scan(...interface{}) error }) (*models.IPO, error) {
	var ipo models.IPO
	err := row.Scan(
		&ipo.ID, &ipo.CompanyName, &ipo.PriceBand, &ipo.OpenDate, &ipo.CloseDate, &ipo.ListingDate,
		&ipo.IssueSize, &ipo.IssueType, &ipo.Status, &ipo.IPOPrice, &ipo.ListingPrice, &ipo.CurrentMarketPrice,
		&ipo.LotSize, &ipo.SubscriptionRate, &ipo.LogoURL, &ipo.RHPURL, &ipo.DRHPURL, &ipo.CreatedAt, &ipo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ipo, nil
}

// GetIPOs returns IPOs matching the filter, newest open date first.
func (s *IPOService) GetIPOs(ctx context.Context, filter models.IPOFilter) ([]models.IPO, error) {
	query := `SELECT ` + ipoColumns + ` FROM ipos`

	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(company_name) LIKE $%d", len(args)))
	}
	if len(filter.IssueType) > 0 {
		placeholders := make([]string, 0, len(filter.IssueType))
		for _, t := range filter.IssueType {
			args = append(args, t)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conditions = append(conditions, fmt.Sprintf("issue_type IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("open_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("open_date <= $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY open_date DESC NULLS LAST, created_at DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query IPOs: %w", err)
	}
	defer rows.Close()

	var ipos []models.IPO
	for rows.Next() {
		ipo, err := scanIPO(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan IPO row: %w", err)
		}
		ipos = append(ipos, *ipo)
	}
	return ipos, rows.Err()
}

// GetIPOByID returns one IPO, or nil when no record matches.
func (s *IPOService) GetIPOByID(ctx context.Context, id uuid.UUID) (*models.IPO, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+ipoColumns+` FROM ipos WHERE id = $1`, id)
	ipo, err := scanIPO(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan IPO: %w", err)
	}
	return ipo, nil
}

// ExistsByCompanyName reports whether an IPO with this exact company name exists.
func (s *IPOService) ExistsByCompanyName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM ipos WHERE company_name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check company name: %w", err)
	}
	return exists, nil
}

func (s *IPOService) CreateIPO(ctx context.Context, ipo *models.IPO) error {
	start := time.Now()
	if err := s.ValidateIPO(ipo); err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return err
	}

	query := `INSERT INTO ipos (company_name, price_band, open_date, close_date, listing_date,
              issue_size, issue_type, status, ipo_price, listing_price, current_market_price,
              lot_size, subscription_rate, logo_url, rhp_url, drhp_url)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
              RETURNING id, created_at, updated_at`

	err := s.DB.QueryRowContext(ctx, query,
		ipo.CompanyName, ipo.PriceBand, ipo.OpenDate, ipo.CloseDate, ipo.ListingDate,
		ipo.IssueSize, ipo.IssueType, ipo.Status, ipo.IPOPrice, ipo.ListingPrice, ipo.CurrentMarketPrice,
		ipo.LotSize, ipo.SubscriptionRate, ipo.LogoURL, ipo.RHPURL, ipo.DRHPURL,
	).Scan(&ipo.ID, &ipo.CreatedAt, &ipo.UpdatedAt)

	s.metrics.RecordRequest(err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to create IPO: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"ipo_id":       ipo.ID,
		"company_name": ipo.CompanyName,
		"status":       ipo.Status,
	}).Info("IPO created")

	return nil
}

func (s *IPOService) UpdateIPO(ctx context.Context, ipo *models.IPO) error {
	start := time.Now()
	if err := s.ValidateIPO(ipo); err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return err
	}

	query := `UPDATE ipos SET company_name = $1, price_band = $2, open_date = $3, close_date = $4,
              listing_date = $5, issue_size = $6, issue_type = $7, status = $8, ipo_price = $9,
              listing_price = $10, current_market_price = $11, lot_size = $12, subscription_rate = $13,
              logo_url = $14, rhp_url = $15, drhp_url = $16, updated_at = CURRENT_TIMESTAMP
              WHERE id = $17`

	result, err := s.DB.ExecContext(ctx, query,
		ipo.CompanyName, ipo.PriceBand, ipo.OpenDate, ipo.CloseDate, ipo.ListingDate,
		ipo.IssueSize, ipo.IssueType, ipo.Status, ipo.IPOPrice, ipo.ListingPrice, ipo.CurrentMarketPrice,
		ipo.LotSize, ipo.SubscriptionRate, ipo.LogoURL, ipo.RHPURL, ipo.DRHPURL, ipo.ID,
	)
	if err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return fmt.Errorf("failed to update IPO: %w", err)
	}

	affected, _ := result.RowsAffected()
	s.metrics.RecordRequest(affected > 0, time.Since(start))
	if affected == 0 {
		return shared.NewNotFoundError("IPO not found", "update_ipo")
	}

	logrus.WithFields(logrus.Fields{
		"ipo_id":       ipo.ID,
		"company_name": ipo.CompanyName,
	}).Info("IPO updated")

	return nil
}

func (s *IPOService) DeleteIPO(ctx context.Context, id uuid.UUID) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM ipos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete IPO: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return shared.NewNotFoundError("IPO not found", "delete_ipo")
	}

	logrus.WithField("ipo_id", id).Info("IPO deleted")
	return nil
}

// CountByStatus returns the number of IPOs per status value.
func (s *IPOService) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM ipos GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count IPOs by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// Performance summarizes how a listed IPO has performed since listing.
// Pointer fields are nil when the underlying prices are missing.
type Performance struct {
	IPO              models.IPO `json:"ipo"`
	ListingGain      *float64   `json:"listing_gain"`
	CurrentReturn    *float64   `json:"current_return"`
	DaysSinceListing *int       `json:"days_since_listing"`
	PriceChange      *float64   `json:"price_change"`
}

// BuildPerformance derives the performance view from a record at a point
// in time. Pure so the guard behaviour can be tested without a store.
func BuildPerformance(ipo models.IPO, now time.Time) Performance {
	perf := Performance{
		IPO:           ipo,
		ListingGain:   models.ListingGain(ipo.IPOPrice, ipo.ListingPrice),
		CurrentReturn: models.CurrentReturn(ipo.IPOPrice, ipo.CurrentMarketPrice),
	}

	if ipo.ListingDate != nil {
		days := int(now.Sub(*ipo.ListingDate).Hours() / 24)
		perf.DaysSinceListing = &days
	}
	if ipo.CurrentMarketPrice != nil && ipo.ListingPrice != nil {
		change := models.Round2(*ipo.CurrentMarketPrice - *ipo.ListingPrice)
		perf.PriceChange = &change
	}
	return perf
}

// GetPerformance returns the performance view for a listed IPO.
func (s *IPOService) GetPerformance(ctx context.Context, id uuid.UUID) (*Performance, error) {
	ipo, err := s.GetIPOByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ipo == nil {
		return nil, nil
	}
	if ipo.Status != models.StatusListed {
		return nil, shared.NewValidationError(
			"performance tracking is only available for listed IPOs", "get_performance")
	}

	perf := BuildPerformance(*ipo, time.Now())
	return &perf, nil
}
