package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const trendMonths = 6

// Analytics is the aggregate report over the whole record store.
type Analytics struct {
	TotalIPOs     int                `json:"total_ipos"`
	StatusCounts  map[string]int     `json:"status_counts"`
	StatusPercent map[string]float64 `json:"status_percentages"`

	AvgIPOPrice     *float64 `json:"avg_ipo_price"`
	AvgListingPrice *float64 `json:"avg_listing_price"`

	TotalIssueSize float64 `json:"total_issue_size"`
	AvgIssueSize   float64 `json:"avg_issue_size"`

	TotalApplications     int     `json:"total_applications"`
	AvgApplicationsPerIPO float64 `json:"avg_applications_per_ipo"`

	AvgGainLoss   float64        `json:"avg_gain_loss"`
	TopPerformers []TopPerformer `json:"top_performers"`

	MonthlyLabels []string `json:"monthly_labels"`
	MonthlyData   []int    `json:"monthly_data"`

	IssueSizeDistribution []int `json:"issue_size_distribution"`

	MostPopularIPO string  `json:"most_popular_ipo"`
	GrowthRate     float64 `json:"growth_rate"`
}

type TopPerformer struct {
	ID                 uuid.UUID `json:"id"`
	CompanyName        string    `json:"company_name"`
	IssueSize          string    `json:"issue_size"`
	IPOPrice           *float64  `json:"ipo_price"`
	CurrentMarketPrice *float64  `json:"current_market_price"`
	GainLoss           float64   `json:"gain_loss"`
	ApplicationCount   int       `json:"application_count"`
}

type AnalyticsService struct {
	DB      *sql.DB
	ipos    *IPOService
	metrics *shared.ServiceMetrics
}

func NewAnalyticsService(db *sql.DB, ipos *IPOService) *AnalyticsService {
	return &AnalyticsService{
		DB:      db,
		ipos:    ipos,
		metrics: shared.NewServiceMetrics("analytics-service"),
	}
}

// GetAnalytics aggregates the current record store.
func (s *AnalyticsService) GetAnalytics(ctx context.Context) (*Analytics, error) {
	start := time.Now()

	ipos, err := s.ipos.GetIPOs(ctx, models.IPOFilter{})
	if err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return nil, err
	}

	counts, err := s.applicationCounts(ctx)
	if err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return nil, err
	}

	report := BuildAnalytics(ipos, counts, time.Now())
	s.metrics.RecordRequest(true, time.Since(start))

	logrus.WithFields(logrus.Fields{
		"total_ipos":         report.TotalIPOs,
		"total_applications": report.TotalApplications,
	}).Debug("Analytics report built")

	return report, nil
}

func (s *AnalyticsService) applicationCounts(ctx context.Context) (map[uuid.UUID]int, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT ipo_id, COUNT(*) FROM ipo_applications GROUP BY ipo_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan application count: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

// BuildAnalytics computes the report from fetched records. Pure so the
// aggregation rules can be tested without a store.
func BuildAnalytics(ipos []models.IPO, applicationCounts map[uuid.UUID]int, now time.Time) *Analytics {
	report := &Analytics{
		TotalIPOs:             len(ipos),
		StatusCounts:          make(map[string]int),
		StatusPercent:         make(map[string]float64),
		IssueSizeDistribution: make([]int, 4),
	}

	// Status counts and percentages; empty store divides by 1 so every
	// percentage reads as zero rather than faulting.
	for _, ipo := range ipos {
		report.StatusCounts[ipo.Status]++
	}
	denominator := float64(report.TotalIPOs)
	if denominator == 0 {
		denominator = 1
	}
	for _, status := range models.ValidStatuses {
		report.StatusPercent[status] = float64(report.StatusCounts[status]) / denominator * 100
	}

	// Price averages over the records that carry the field.
	report.AvgIPOPrice = averagePresent(ipos, func(ipo models.IPO) *float64 { return ipo.IPOPrice })
	report.AvgListingPrice = averagePresent(ipos, func(ipo models.IPO) *float64 { return ipo.ListingPrice })

	// Issue size totals over parseable values; histogram breakpoints at
	// 100 / 500 / 1000.
	sized := 0
	for _, ipo := range ipos {
		size := ParseIssueSize(ipo.IssueSize)
		if size == nil {
			continue
		}
		sized++
		report.TotalIssueSize += *size
		switch {
		case *size < 100:
			report.IssueSizeDistribution[0]++
		case *size < 500:
			report.IssueSizeDistribution[1]++
		case *size < 1000:
			report.IssueSizeDistribution[2]++
		default:
			report.IssueSizeDistribution[3]++
		}
	}
	if sized > 0 {
		report.AvgIssueSize = report.TotalIssueSize / float64(sized)
	}

	// Application totals and the most-applied IPO.
	mostApplied := 0
	for _, ipo := range ipos {
		count := applicationCounts[ipo.ID]
		report.TotalApplications += count
		if count > mostApplied {
			mostApplied = count
			report.MostPopularIPO = ipo.CompanyName
		}
	}
	report.AvgApplicationsPerIPO = float64(report.TotalApplications) / denominator

	// Performance over listed IPOs carrying both prices.
	var gainSum float64
	var performers []TopPerformer
	for _, ipo := range ipos {
		if ipo.Status != models.StatusListed {
			continue
		}
		gain := models.CurrentReturn(ipo.IPOPrice, ipo.CurrentMarketPrice)
		if gain == nil {
			continue
		}
		gainSum += *gain
		performers = append(performers, TopPerformer{
			ID:                 ipo.ID,
			CompanyName:        ipo.CompanyName,
			IssueSize:          ipo.IssueSize,
			IPOPrice:           ipo.IPOPrice,
			CurrentMarketPrice: ipo.CurrentMarketPrice,
			GainLoss:           *gain,
			ApplicationCount:   applicationCounts[ipo.ID],
		})
	}
	if len(performers) > 0 {
		report.AvgGainLoss = gainSum / float64(len(performers))
	}
	report.TopPerformers = sortTopPerformers(performers, 10)

	report.MonthlyLabels, report.MonthlyData = monthlyTrend(ipos, now)
	report.GrowthRate = growthRate(report.MonthlyData)

	return report
}

func averagePresent(ipos []models.IPO, field func(models.IPO) *float64) *float64 {
	sum := 0.0
	n := 0
	for _, ipo := range ipos {
		if v := field(ipo); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// sortTopPerformers orders by gain descending; equal gains break the tie
// by company name ascending so the ranking is deterministic.
func sortTopPerformers(performers []TopPerformer, limit int) []TopPerformer {
	sort.Slice(performers, func(i, j int) bool {
		if performers[i].GainLoss != performers[j].GainLoss {
			return performers[i].GainLoss > performers[j].GainLoss
		}
		return performers[i].CompanyName < performers[j].CompanyName
	})
	if len(performers) > limit {
		performers = performers[:limit]
	}
	return performers
}

// monthlyTrend buckets record creation counts into the trailing six
// calendar months, oldest first.
func monthlyTrend(ipos []models.IPO, now time.Time) ([]string, []int) {
	labels := make([]string, trendMonths)
	data := make([]int, trendMonths)

	for i := 0; i < trendMonths; i++ {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
			AddDate(0, i-(trendMonths-1), 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		labels[i] = monthStart.Format("Jan 2006")
		for _, ipo := range ipos {
			if !ipo.CreatedAt.Before(monthStart) && ipo.CreatedAt.Before(monthEnd) {
				data[i]++
			}
		}
	}
	return labels, data
}

// growthRate is the month-over-month change of the two newest trend
// buckets, zero when the prior month had no records.
func growthRate(monthlyData []int) float64 {
	if len(monthlyData) < 2 {
		return 0
	}
	current := monthlyData[len(monthlyData)-1]
	previous := monthlyData[len(monthlyData)-2]
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}
