package services

import (
	"testing"
	"time"

	"github.com/bluestock/ipotrack/models"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listedIPO(name string, ipoPrice, cmp float64) models.IPO {
	return models.IPO{
		ID:                 uuid.New(),
		CompanyName:        name,
		IssueType:          models.IssueTypeBookBuilt,
		Status:             models.StatusListed,
		IPOPrice:           floatPtr(ipoPrice),
		CurrentMarketPrice: floatPtr(cmp),
	}
}

func TestBuildAnalyticsEmptyStore(t *testing.T) {
	report := BuildAnalytics(nil, nil, time.Now())

	assert.Equal(t, 0, report.TotalIPOs)
	for _, status := range models.ValidStatuses {
		assert.Equal(t, 0.0, report.StatusPercent[status])
	}
	assert.Nil(t, report.AvgIPOPrice)
	assert.Nil(t, report.AvgListingPrice)
	assert.Equal(t, 0.0, report.TotalIssueSize)
	assert.Equal(t, 0.0, report.AvgApplicationsPerIPO)
	assert.Empty(t, report.TopPerformers)
	assert.Equal(t, []int{0, 0, 0, 0}, report.IssueSizeDistribution)
	assert.Len(t, report.MonthlyLabels, 6)
	assert.Equal(t, 0.0, report.GrowthRate)
}

func TestBuildAnalyticsStatusPercentages(t *testing.T) {
	ipos := []models.IPO{
		{ID: uuid.New(), Status: models.StatusUpcoming},
		{ID: uuid.New(), Status: models.StatusUpcoming},
		{ID: uuid.New(), Status: models.StatusListed},
		{ID: uuid.New(), Status: models.StatusOngoing},
	}

	report := BuildAnalytics(ipos, nil, time.Now())

	assert.Equal(t, 4, report.TotalIPOs)
	assert.Equal(t, 50.0, report.StatusPercent[models.StatusUpcoming])
	assert.Equal(t, 25.0, report.StatusPercent[models.StatusOngoing])
	assert.Equal(t, 25.0, report.StatusPercent[models.StatusListed])
}

func TestBuildAnalyticsAveragesSkipMissing(t *testing.T) {
	ipos := []models.IPO{
		{ID: uuid.New(), Status: models.StatusListed, IPOPrice: floatPtr(100)},
		{ID: uuid.New(), Status: models.StatusListed, IPOPrice: floatPtr(200)},
		{ID: uuid.New(), Status: models.StatusUpcoming},
	}

	report := BuildAnalytics(ipos, nil, time.Now())

	require.NotNil(t, report.AvgIPOPrice)
	assert.Equal(t, 150.0, *report.AvgIPOPrice)
	assert.Nil(t, report.AvgListingPrice)
}

func TestBuildAnalyticsIssueSizeDistribution(t *testing.T) {
	ipos := []models.IPO{
		{ID: uuid.New(), Status: models.StatusListed, IssueSize: "50 Cr"},
		{ID: uuid.New(), Status: models.StatusListed, IssueSize: "100 Cr"},
		{ID: uuid.New(), Status: models.StatusListed, IssueSize: "499 Cr"},
		{ID: uuid.New(), Status: models.StatusListed, IssueSize: "750 Cr"},
		{ID: uuid.New(), Status: models.StatusListed, IssueSize: "1,500 Cr"},
		{ID: uuid.New(), Status: models.StatusListed, IssueSize: "TBA"},
	}

	report := BuildAnalytics(ipos, nil, time.Now())

	assert.Equal(t, []int{1, 2, 1, 1}, report.IssueSizeDistribution)
	assert.Equal(t, 2899.0, report.TotalIssueSize)
	assert.Equal(t, 2899.0/5, report.AvgIssueSize)
}

func TestBuildAnalyticsTopPerformerOrdering(t *testing.T) {
	ipos := []models.IPO{
		listedIPO("Middling Ltd", 100, 110),
		listedIPO("Winner Ltd", 100, 150),
		listedIPO("Beta Ties", 100, 120),
		listedIPO("Alpha Ties", 100, 120),
		{ID: uuid.New(), CompanyName: "Not Listed", Status: models.StatusUpcoming,
			IPOPrice: floatPtr(100), CurrentMarketPrice: floatPtr(500)},
	}

	report := BuildAnalytics(ipos, nil, time.Now())

	require.Len(t, report.TopPerformers, 4)
	assert.Equal(t, "Winner Ltd", report.TopPerformers[0].CompanyName)
	assert.Equal(t, "Alpha Ties", report.TopPerformers[1].CompanyName)
	assert.Equal(t, "Beta Ties", report.TopPerformers[2].CompanyName)
	assert.Equal(t, "Middling Ltd", report.TopPerformers[3].CompanyName)
}

func TestBuildAnalyticsTopPerformersCappedAtTen(t *testing.T) {
	var ipos []models.IPO
	for i := 0; i < 15; i++ {
		ipos = append(ipos, listedIPO(string(rune('A'+i))+" Ltd", 100, 100+float64(i)))
	}

	report := BuildAnalytics(ipos, nil, time.Now())
	assert.Len(t, report.TopPerformers, 10)
}

func TestBuildAnalyticsApplications(t *testing.T) {
	a := listedIPO("Alpha Ltd", 100, 110)
	b := listedIPO("Beta Ltd", 100, 120)
	counts := map[uuid.UUID]int{a.ID: 5, b.ID: 3}

	report := BuildAnalytics([]models.IPO{a, b}, counts, time.Now())

	assert.Equal(t, 8, report.TotalApplications)
	assert.Equal(t, 4.0, report.AvgApplicationsPerIPO)
	assert.Equal(t, "Alpha Ltd", report.MostPopularIPO)
}

func TestBuildAnalyticsMonthlyTrend(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	ipos := []models.IPO{
		{ID: uuid.New(), Status: models.StatusListed, CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Status: models.StatusListed, CreatedAt: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Status: models.StatusListed, CreatedAt: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Status: models.StatusListed, CreatedAt: time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC)},
	}

	report := BuildAnalytics(ipos, nil, now)

	require.Len(t, report.MonthlyLabels, 6)
	assert.Equal(t, "Jan 2024", report.MonthlyLabels[0])
	assert.Equal(t, "Jun 2024", report.MonthlyLabels[5])
	assert.Equal(t, []int{0, 0, 0, 0, 1, 2}, report.MonthlyData)
	assert.Equal(t, 100.0, report.GrowthRate)
}

func TestGrowthRateZeroWhenPriorMonthEmpty(t *testing.T) {
	assert.Equal(t, 0.0, growthRate([]int{0, 0, 0, 0, 0, 3}))
	assert.Equal(t, 0.0, growthRate([]int{}))
	assert.Equal(t, -50.0, growthRate([]int{4, 2}))
}

func TestBuildAnalyticsProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	statusGen := gen.OneConstOf(models.StatusUpcoming, models.StatusOngoing, models.StatusListed)

	properties.Property("status counts sum to the total", prop.ForAll(
		func(statuses []string) bool {
			ipos := make([]models.IPO, len(statuses))
			for i, status := range statuses {
				ipos[i] = models.IPO{ID: uuid.New(), Status: status}
			}

			report := BuildAnalytics(ipos, nil, time.Now())

			sum := 0
			for _, count := range report.StatusCounts {
				sum += count
			}
			return sum == report.TotalIPOs && report.TotalIPOs == len(statuses)
		},
		gen.SliceOf(statusGen),
	))

	properties.Property("status percentages sum to 100 for a non-empty store", prop.ForAll(
		func(statuses []string) bool {
			if len(statuses) == 0 {
				return true
			}
			ipos := make([]models.IPO, len(statuses))
			for i, status := range statuses {
				ipos[i] = models.IPO{ID: uuid.New(), Status: status}
			}

			report := BuildAnalytics(ipos, nil, time.Now())

			total := 0.0
			for _, pct := range report.StatusPercent {
				total += pct
			}
			return total > 99.999 && total < 100.001
		},
		gen.SliceOf(statusGen),
	))

	properties.TestingRun(t)
}
