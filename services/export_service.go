package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// exportHeader is the fixed 18-column export schema.
var exportHeader = []string{
	"Company Name",
	"Issue Type",
	"Price Band Lower",
	"Price Band Upper",
	"Issue Size",
	"Lot Size",
	"Open Date",
	"Close Date",
	"Listing Date",
	"Status",
	"IPO Price",
	"Listing Price",
	"Current Market Price",
	"Gain/Loss %",
	"Total Applications",
	"Subscription Rate",
	"Created Date",
	"Last Updated",
}

type ExportService struct {
	DB      *sql.DB
	ipos    *IPOService
	metrics *shared.ServiceMetrics
}

func NewExportService(db *sql.DB, ipos *IPOService) *ExportService {
	return &ExportService{
		DB:      db,
		ipos:    ipos,
		metrics: shared.NewServiceMetrics("export-service"),
	}
}

// ExportFilename returns the download filename for an export started at t.
func ExportFilename(t time.Time) string {
	return "ipo_data_export_" + t.Format("20060102_150405") + ".csv"
}

// Export builds the CSV for all IPOs matching the filter.
func (s *ExportService) Export(ctx context.Context, filter models.IPOFilter) (string, []byte, error) {
	start := time.Now()

	ipos, err := s.ipos.GetIPOs(ctx, filter)
	if err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return "", nil, err
	}

	counts, err := s.applicationCounts(ctx)
	if err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return "", nil, err
	}

	var buf bytes.Buffer
	if err := WriteIPOCSV(&buf, ipos, counts); err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return "", nil, err
	}

	s.metrics.RecordRequest(true, time.Since(start))
	logrus.WithFields(logrus.Fields{
		"rows":   len(ipos),
		"status": filter.Status,
	}).Info("CSV export generated")

	return ExportFilename(start), buf.Bytes(), nil
}

// applicationCounts fetches application totals for every IPO in one
// grouped query instead of a per-row count.
func (s *ExportService) applicationCounts(ctx context.Context) (map[uuid.UUID]int, error) {
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

// WriteIPOCSV writes the fixed 18-column export. Missing optional values
// render as empty strings, never as a placeholder token.
func WriteIPOCSV(w io.Writer, ipos []models.IPO, applicationCounts map[uuid.UUID]int) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, ipo := range ipos {
		lower, upper := SplitPriceBand(ipo.PriceBand)

		gainLoss := ""
		if v := models.CurrentReturn(ipo.IPOPrice, ipo.CurrentMarketPrice); v != nil {
			gainLoss = fmt.Sprintf("%.2f%%", *v)
		}

		lotSize := ""
		if ipo.LotSize != nil {
			lotSize = strconv.Itoa(*ipo.LotSize)
		}

		record := []string{
			ipo.CompanyName,
			ipo.IssueType,
			lower,
			upper,
			ipo.IssueSize,
			lotSize,
			FormatOptionalDate(ipo.OpenDate),
			FormatOptionalDate(ipo.CloseDate),
			FormatOptionalDate(ipo.ListingDate),
			titleStatus(ipo.Status),
			FormatOptionalFloat(ipo.IPOPrice),
			FormatOptionalFloat(ipo.ListingPrice),
			FormatOptionalFloat(ipo.CurrentMarketPrice),
			gainLoss,
			strconv.Itoa(applicationCounts[ipo.ID]),
			FormatOptionalFloat(ipo.SubscriptionRate),
			ipo.CreatedAt.Format(timestampLayout),
			ipo.UpdatedAt.Format(timestampLayout),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// SplitPriceBand splits a free-text price band such as "95-100" or
// "₹95 - ₹100" into its lower and upper bounds. A band without a
// separator is returned whole as the lower bound.
func SplitPriceBand(band string) (lower, upper string) {
	band = strings.TrimSpace(band)
	if band == "" {
		return "", ""
	}
	parts := strings.SplitN(band, "-", 2)
	lower = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		upper = strings.TrimSpace(parts[1])
	}
	return lower, upper
}

func titleStatus(status string) string {
	if status == "" {
		return ""
	}
	return strings.ToUpper(status[:1]) + status[1:]
}
