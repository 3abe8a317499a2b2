package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/bluestock/ipotrack/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFilename(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	assert.Equal(t, "ipo_data_export_20240315_103045.csv", ExportFilename(at))
}

func TestWriteIPOCSVEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIPOCSV(&buf, nil, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, exportHeader, records[0])
	assert.Len(t, records[0], 18)
}

func TestWriteIPOCSVRow(t *testing.T) {
	id := uuid.New()
	openDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 5, 20, 9, 15, 0, 0, time.UTC)

	ipo := models.IPO{
		ID:                 id,
		CompanyName:        "Alpha Ltd",
		IssueType:          models.IssueTypeBookBuilt,
		PriceBand:          "95-100",
		IssueSize:          "1,200 Cr",
		LotSize:            intPtr(150),
		OpenDate:           &openDate,
		Status:             models.StatusListed,
		IPOPrice:           floatPtr(99),
		ListingPrice:       floatPtr(111),
		CurrentMarketPrice: floatPtr(120),
		SubscriptionRate:   floatPtr(12.5),
		CreatedAt:          created,
		UpdatedAt:          created,
	}

	var buf bytes.Buffer
	counts := map[uuid.UUID]int{id: 7}
	require.NoError(t, WriteIPOCSV(&buf, []models.IPO{ipo}, counts))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, "Alpha Ltd", row[0])
	assert.Equal(t, "Book Built Issue", row[1])
	assert.Equal(t, "95", row[2])
	assert.Equal(t, "100", row[3])
	assert.Equal(t, "1,200 Cr", row[4])
	assert.Equal(t, "150", row[5])
	assert.Equal(t, "2024-06-01", row[6])
	assert.Equal(t, "", row[7])
	assert.Equal(t, "", row[8])
	assert.Equal(t, "Listed", row[9])
	assert.Equal(t, "99.00", row[10])
	assert.Equal(t, "111.00", row[11])
	assert.Equal(t, "120.00", row[12])
	assert.Equal(t, "21.21%", row[13])
	assert.Equal(t, "7", row[14])
	assert.Equal(t, "12.50", row[15])
	assert.Equal(t, "2024-05-20 09:15:00", row[16])
	assert.Equal(t, "2024-05-20 09:15:00", row[17])
}

func TestWriteIPOCSVMissingValuesStayEmpty(t *testing.T) {
	ipo := models.IPO{
		ID:          uuid.New(),
		CompanyName: "Bare Ltd",
		IssueType:   models.IssueTypeSME,
		Status:      models.StatusUpcoming,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteIPOCSV(&buf, []models.IPO{ipo}, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	for _, i := range []int{2, 3, 5, 6, 7, 8, 10, 11, 12, 13, 15} {
		assert.Equal(t, "", row[i], "column %q", exportHeader[i])
	}
	assert.Equal(t, "0", row[14])
}

func TestSplitPriceBand(t *testing.T) {
	cases := []struct {
		band  string
		lower string
		upper string
	}{
		{"95-100", "95", "100"},
		{"95 - 100", "95", "100"},
		{"₹95 - ₹100", "₹95", "₹100"},
		{"100", "100", ""},
		{"", "", ""},
	}

	for _, tc := range cases {
		lower, upper := SplitPriceBand(tc.band)
		assert.Equal(t, tc.lower, lower, "band %q", tc.band)
		assert.Equal(t, tc.upper, upper, "band %q", tc.band)
	}
}

func TestTitleStatus(t *testing.T) {
	assert.Equal(t, "Upcoming", titleStatus("upcoming"))
	assert.Equal(t, "Listed", titleStatus("listed"))
	assert.Equal(t, "", titleStatus(""))
}
