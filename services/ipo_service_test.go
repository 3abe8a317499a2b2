package services

import (
	"testing"
	"time"

	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPerformance(t *testing.T) {
	listingDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)

	ipo := models.IPO{
		Status:             models.StatusListed,
		IPOPrice:           floatPtr(99),
		ListingPrice:       floatPtr(111),
		CurrentMarketPrice: floatPtr(120),
		ListingDate:        &listingDate,
	}

	perf := BuildPerformance(ipo, now)

	require.NotNil(t, perf.ListingGain)
	assert.Equal(t, 12.12, *perf.ListingGain)

	require.NotNil(t, perf.CurrentReturn)
	assert.Equal(t, 21.21, *perf.CurrentReturn)

	require.NotNil(t, perf.DaysSinceListing)
	assert.Equal(t, 10, *perf.DaysSinceListing)

	require.NotNil(t, perf.PriceChange)
	assert.Equal(t, 9.0, *perf.PriceChange)
}

func TestBuildPerformanceMissingPrices(t *testing.T) {
	perf := BuildPerformance(models.IPO{Status: models.StatusListed}, time.Now())

	assert.Nil(t, perf.ListingGain)
	assert.Nil(t, perf.CurrentReturn)
	assert.Nil(t, perf.DaysSinceListing)
	assert.Nil(t, perf.PriceChange)
}

func TestValidateIPO(t *testing.T) {
	svc := NewIPOService(nil)

	valid := &models.IPO{
		CompanyName: "Alpha Ltd",
		IssueType:   models.IssueTypeBookBuilt,
		Status:      models.StatusUpcoming,
	}
	assert.NoError(t, svc.ValidateIPO(valid))

	missingName := &models.IPO{
		IssueType: models.IssueTypeBookBuilt,
		Status:    models.StatusUpcoming,
	}
	err := svc.ValidateIPO(missingName)
	require.Error(t, err)
	assert.Equal(t, shared.ErrorCategoryValidation, shared.CategoryOf(err))

	badStatus := &models.IPO{
		CompanyName: "Alpha Ltd",
		IssueType:   models.IssueTypeBookBuilt,
		Status:      "delisted",
	}
	assert.Error(t, svc.ValidateIPO(badStatus))

	badIssueType := &models.IPO{
		CompanyName: "Alpha Ltd",
		IssueType:   "Reverse Merger",
		Status:      models.StatusUpcoming,
	}
	assert.Error(t, svc.ValidateIPO(badIssueType))

	negativePrice := &models.IPO{
		CompanyName: "Alpha Ltd",
		IssueType:   models.IssueTypeBookBuilt,
		Status:      models.StatusUpcoming,
		IPOPrice:    floatPtr(-5),
	}
	assert.Error(t, svc.ValidateIPO(negativePrice))
}
