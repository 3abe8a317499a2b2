package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/shared"
	"github.com/sirupsen/logrus"
)

// ImportStore is the slice of the record store the importer needs.
type ImportStore interface {
	ExistsByCompanyName(ctx context.Context, name string) (bool, error)
	CreateIPO(ctx context.Context, ipo *models.IPO) error
	ValidateIPO(ipo *models.IPO) error
}

type ImportOptions struct {
	SkipDuplicates bool `json:"skip_duplicates"`
	ValidateData   bool `json:"validate_data"`
}

// ImportResult accumulates the outcome of one bulk import. Every data row
// lands in exactly one of the three counters.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errored  int      `json:"errored"`
	Errors   []string `json:"errors"`
}

// Summary renders the user-facing outcome message, showing at most
// sampleSize error details while keeping the full error count.
func (r *ImportResult) Summary(sampleSize int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully imported %d IPOs.", r.Imported)
	if r.Skipped > 0 {
		fmt.Fprintf(&b, " Skipped %d duplicates.", r.Skipped)
	}
	if r.Errored > 0 {
		fmt.Fprintf(&b, " %d rows had errors.", r.Errored)
	}

	if len(r.Errors) > 0 {
		shown := r.Errors
		if len(shown) > sampleSize {
			shown = shown[:sampleSize]
		}
		b.WriteString("\n" + strings.Join(shown, "\n"))
		if len(r.Errors) > sampleSize {
			fmt.Fprintf(&b, "\n... and %d more errors.", len(r.Errors)-sampleSize)
		}
	}
	return b.String()
}

type ImportService struct {
	store   ImportStore
	metrics *shared.ServiceMetrics
}

func NewImportService(store ImportStore) *ImportService {
	return &ImportService{
		store:   store,
		metrics: shared.NewServiceMetrics("import-service"),
	}
}

// ImportCSV reads a UTF-8 comma-delimited file with a header row and
// imports it row by row.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Ragged rows are row-scoped problems, not batch aborts. Missing
	// columns surface as empty values and fail that row's validation.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, shared.NewValidationError("CSV file is empty or has no header row", "import_csv")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, shared.NewValidationError(
				fmt.Sprintf("failed to parse CSV file: %v", err), "import_csv")
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return s.ImportRows(ctx, rows, opts)
}

// ImportRows folds over the data rows in file order. Each row is an
// independent unit of work; a failed row is recorded and processing
// continues. The first data row is reported as row 2, after the header.
func (s *ImportService) ImportRows(ctx context.Context, rows []map[string]string, opts ImportOptions) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{}

	for i, row := range rows {
		rowNum := i + 2

		outcome, err := s.importRow(ctx, rowNum, row, opts)
		switch {
		case err != nil:
			result.Errored++
			result.Errors = append(result.Errors, err.Error())
		case outcome == rowSkipped:
			result.Skipped++
		default:
			result.Imported++
		}
	}

	s.metrics.RecordRequest(result.Errored == 0, time.Since(start))
	logrus.WithFields(logrus.Fields{
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errored":  result.Errored,
	}).Info("Bulk import completed")

	return result, nil
}

type rowOutcome int

const (
	rowImported rowOutcome = iota
	rowSkipped
)

func (s *ImportService) importRow(ctx context.Context, rowNum int, row map[string]string, opts ImportOptions) (rowOutcome, error) {
	companyName := strings.TrimSpace(row["company_name"])
	issueType := strings.TrimSpace(row["issue_type"])
	status := strings.TrimSpace(row["status"])

	if companyName == "" {
		return 0, fmt.Errorf("Row %d: Company name is required", rowNum)
	}
	if issueType == "" {
		return 0, fmt.Errorf("Row %d: Issue type is required", rowNum)
	}
	if status == "" {
		return 0, fmt.Errorf("Row %d: Status is required", rowNum)
	}

	if opts.SkipDuplicates {
		exists, err := s.store.ExistsByCompanyName(ctx, companyName)
		if err != nil {
			return 0, fmt.Errorf("Row %d: Unexpected error - %v", rowNum, err)
		}
		if exists {
			return rowSkipped, nil
		}
	}

	openDate, err := ParseCSVDate(row["open_date"])
	if err != nil {
		return 0, fmt.Errorf("Row %d: Invalid open_date format. Use YYYY-MM-DD", rowNum)
	}
	closeDate, err := ParseCSVDate(row["close_date"])
	if err != nil {
		return 0, fmt.Errorf("Row %d: Invalid close_date format. Use YYYY-MM-DD", rowNum)
	}
	listingDate, err := ParseCSVDate(row["listing_date"])
	if err != nil {
		return 0, fmt.Errorf("Row %d: Invalid listing_date format. Use YYYY-MM-DD", rowNum)
	}

	ipoPrice, err := ParseOptionalFloat(row["ipo_price"])
	if err != nil {
		return 0, fmt.Errorf("Row %d: Invalid ipo_price. Must be a number", rowNum)
	}
	listingPrice, err := ParseOptionalFloat(row["listing_price"])
	if err != nil {
		return 0, fmt.Errorf("Row %d: Invalid listing_price. Must be a number", rowNum)
	}
	currentMarketPrice, err := ParseOptionalFloat(row["current_market_price"])
	if err != nil {
		return 0, fmt.Errorf("Row %d: Invalid current_market_price. Must be a number", rowNum)
	}

	if !models.IsValidStatus(strings.ToLower(status)) {
		return 0, fmt.Errorf("Row %d: Invalid status. Must be one of: %s",
			rowNum, strings.Join(models.ValidStatuses, ", "))
	}
	if !models.IsValidIssueType(issueType) {
		return 0, fmt.Errorf("Row %d: Invalid issue_type. Must be one of: %s",
			rowNum, strings.Join(models.ValidIssueTypes, ", "))
	}

	ipo := &models.IPO{
		CompanyName:        companyName,
		IssueType:          issueType,
		PriceBand:          strings.TrimSpace(row["price_band"]),
		IssueSize:          strings.TrimSpace(row["issue_size"]),
		OpenDate:           openDate,
		CloseDate:          closeDate,
		ListingDate:        listingDate,
		Status:             strings.ToLower(status),
		IPOPrice:           ipoPrice,
		ListingPrice:       listingPrice,
		CurrentMarketPrice: currentMarketPrice,
	}

	if opts.ValidateData {
		if err := s.store.ValidateIPO(ipo); err != nil {
			return 0, fmt.Errorf("Row %d: %v", rowNum, err)
		}
	}

	if err := s.store.CreateIPO(ctx, ipo); err != nil {
		return 0, fmt.Errorf("Row %d: Unexpected error - %v", rowNum, err)
	}
	return rowImported, nil
}
