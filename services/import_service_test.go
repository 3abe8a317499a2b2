package services

import (
	"context"
	"strings"
	"testing"

	"github.com/bluestock/ipotrack/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeImportStore records created IPOs in memory.
type fakeImportStore struct {
	existing map[string]bool
	created  []*models.IPO
	validate func(*models.IPO) error
}

func newFakeImportStore(existing ...string) *fakeImportStore {
	store := &fakeImportStore{existing: make(map[string]bool)}
	for _, name := range existing {
		store.existing[name] = true
	}
	return store
}

func (f *fakeImportStore) ExistsByCompanyName(_ context.Context, name string) (bool, error) {
	return f.existing[name], nil
}

func (f *fakeImportStore) CreateIPO(_ context.Context, ipo *models.IPO) error {
	f.created = append(f.created, ipo)
	f.existing[ipo.CompanyName] = true
	return nil
}

func (f *fakeImportStore) ValidateIPO(ipo *models.IPO) error {
	if f.validate != nil {
		return f.validate(ipo)
	}
	return nil
}

func validRow(companyName string) map[string]string {
	return map[string]string{
		"company_name": companyName,
		"issue_type":   models.IssueTypeBookBuilt,
		"status":       models.StatusUpcoming,
		"price_band":   "95-100",
		"issue_size":   "1,200 Cr",
		"open_date":    "2024-06-01",
		"close_date":   "2024-06-03",
	}
}

func TestImportRowsAllValid(t *testing.T) {
	store := newFakeImportStore()
	svc := NewImportService(store)

	rows := []map[string]string{
		validRow("Alpha Ltd"),
		validRow("Beta Ltd"),
	}

	result, err := svc.ImportRows(context.Background(), rows, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Errored)
	assert.Empty(t, result.Errors)
	require.Len(t, store.created, 2)
	assert.Equal(t, "Alpha Ltd", store.created[0].CompanyName)
}

func TestImportRowsMissingCompanyName(t *testing.T) {
	store := newFakeImportStore()
	svc := NewImportService(store)

	rows := []map[string]string{
		{"company_name": "  ", "issue_type": models.IssueTypeBookBuilt, "status": "upcoming"},
	}

	result, err := svc.ImportRows(context.Background(), rows, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errored)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Row 2: Company name is required", result.Errors[0])
	assert.Empty(t, store.created)
}

func TestImportRowsRowNumbersStartAfterHeader(t *testing.T) {
	store := newFakeImportStore()
	svc := NewImportService(store)

	rows := []map[string]string{
		validRow("Alpha Ltd"),
		{"company_name": "Beta Ltd", "issue_type": models.IssueTypeBookBuilt, "status": "upcoming", "open_date": "03-06-2024"},
		{"company_name": "Gamma Ltd", "issue_type": "Mystery Issue", "status": "upcoming"},
	}

	result, err := svc.ImportRows(context.Background(), rows, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Errored)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "Row 3: Invalid open_date format. Use YYYY-MM-DD", result.Errors[0])
	assert.True(t, strings.HasPrefix(result.Errors[1], "Row 4: Invalid issue_type."))
}

func TestImportRowsSkipDuplicates(t *testing.T) {
	store := newFakeImportStore("Alpha Ltd")
	svc := NewImportService(store)

	rows := []map[string]string{
		validRow("Alpha Ltd"),
		validRow("Beta Ltd"),
	}

	result, err := svc.ImportRows(context.Background(), rows, ImportOptions{SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Errored)

	// Without the flag, the duplicate imports again.
	store2 := newFakeImportStore("Alpha Ltd")
	svc2 := NewImportService(store2)
	result2, err := svc2.ImportRows(context.Background(), rows, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result2.Imported)
	assert.Equal(t, 0, result2.Skipped)
}

func TestImportRowsStatusNormalizedLowercase(t *testing.T) {
	store := newFakeImportStore()
	svc := NewImportService(store)

	row := validRow("Alpha Ltd")
	row["status"] = "Upcoming"

	result, err := svc.ImportRows(context.Background(), []map[string]string{row}, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.created, 1)
	assert.Equal(t, models.StatusUpcoming, store.created[0].Status)
}

func TestImportRowsIssueTypeCaseSensitive(t *testing.T) {
	store := newFakeImportStore()
	svc := NewImportService(store)

	row := validRow("Alpha Ltd")
	row["issue_type"] = "book built issue"

	result, err := svc.ImportRows(context.Background(), []map[string]string{row}, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errored)
	assert.Empty(t, store.created)
}

func TestImportCSVParsesHeaderAndRows(t *testing.T) {
	store := newFakeImportStore()
	svc := NewImportService(store)

	csvData := strings.Join([]string{
		"company_name,issue_type,status,ipo_price",
		"Alpha Ltd,Book Built Issue,upcoming,95.5",
		",Book Built Issue,upcoming,",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Errored)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Row 3: Company name is required", result.Errors[0])

	require.Len(t, store.created, 1)
	require.NotNil(t, store.created[0].IPOPrice)
	assert.Equal(t, 95.5, *store.created[0].IPOPrice)
}

func TestImportCSVRaggedRowsStayRowScoped(t *testing.T) {
	store := newFakeImportStore()
	svc := NewImportService(store)

	// Row 3 carries an extra field, row 4 is short of columns. Neither
	// may abort the batch; row 2 and row 5 still import.
	csvData := strings.Join([]string{
		"company_name,issue_type,status,ipo_price",
		"Alpha Ltd,Book Built Issue,upcoming,95.5",
		"Beta Ltd,Book Built Issue,upcoming,80,stray-field",
		"Gamma Ltd,Book Built Issue",
		"Delta Ltd,Book Built Issue,upcoming,",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Errored)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Row 4: Status is required", result.Errors[0])

	require.Len(t, store.created, 3)
	assert.Equal(t, "Alpha Ltd", store.created[0].CompanyName)
	assert.Equal(t, "Beta Ltd", store.created[1].CompanyName)
	assert.Equal(t, "Delta Ltd", store.created[2].CompanyName)
}

func TestImportCSVEmptyFile(t *testing.T) {
	svc := NewImportService(newFakeImportStore())

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(""), ImportOptions{})
	assert.Error(t, err)
}

func TestImportSummary(t *testing.T) {
	result := &ImportResult{Imported: 3, Skipped: 1, Errored: 2, Errors: []string{
		"Row 2: Company name is required",
		"Row 5: Status is required",
	}}

	summary := result.Summary(5)
	assert.Contains(t, summary, "Successfully imported 3 IPOs.")
	assert.Contains(t, summary, "Skipped 1 duplicates.")
	assert.Contains(t, summary, "2 rows had errors.")
	assert.Contains(t, summary, "Row 2: Company name is required")

	truncated := result.Summary(1)
	assert.Contains(t, truncated, "... and 1 more errors.")
	assert.NotContains(t, truncated, "Row 5")
}

func TestImportRowOutcomeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every row lands in exactly one counter", prop.ForAll(
		func(names []string) bool {
			store := newFakeImportStore()
			svc := NewImportService(store)

			rows := make([]map[string]string, len(names))
			for i, name := range names {
				rows[i] = validRow(name)
			}

			result, err := svc.ImportRows(context.Background(), rows, ImportOptions{SkipDuplicates: true})
			if err != nil {
				return false
			}
			return result.Imported+result.Skipped+result.Errored == len(rows)
		},
		gen.SliceOf(gen.OneConstOf("Alpha Ltd", "Beta Ltd", "Gamma Ltd", "")),
	))

	properties.TestingRun(t)
}
