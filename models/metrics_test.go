package models

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestListingGainKnownValues(t *testing.T) {
	gain := ListingGain(floatPtr(99.0), floatPtr(111.0))
	require.NotNil(t, gain)
	assert.Equal(t, 12.12, *gain)

	loss := ListingGain(floatPtr(95.0), floatPtr(80.0))
	require.NotNil(t, loss)
	assert.Equal(t, -15.79, *loss)
}

func TestListingGainMissingOperands(t *testing.T) {
	assert.Nil(t, ListingGain(nil, floatPtr(100)))
	assert.Nil(t, ListingGain(floatPtr(100), nil))
	assert.Nil(t, ListingGain(nil, nil))
}

func TestListingGainZeroBase(t *testing.T) {
	assert.Nil(t, ListingGain(floatPtr(0), floatPtr(100)))
}

func TestCurrentReturnMatchesListingGainFormula(t *testing.T) {
	base := floatPtr(200.0)
	current := floatPtr(250.0)

	gain := CurrentReturn(base, current)
	require.NotNil(t, gain)
	assert.Equal(t, 25.0, *gain)
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
	assert.Equal(t, 12.12, Round2(12.1212))
}

func TestPercentChangeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("gain is rounded to two decimal places", prop.ForAll(
		func(base, current float64) bool {
			gain := ListingGain(&base, &current)
			if gain == nil {
				return base == 0
			}
			scaled := *gain * 100
			return math.Abs(scaled-math.Round(scaled)) < 1e-6
		},
		gen.Float64Range(1, 10000),
		gen.Float64Range(0, 10000),
	))

	properties.Property("equal prices always yield zero gain", prop.ForAll(
		func(price float64) bool {
			gain := ListingGain(&price, &price)
			return gain != nil && *gain == 0
		},
		gen.Float64Range(0.01, 10000),
	))

	properties.Property("current price above base always yields positive gain", prop.ForAll(
		func(base, delta float64) bool {
			current := base + delta
			gain := CurrentReturn(&base, &current)
			return gain != nil && *gain >= 0
		},
		gen.Float64Range(1, 10000),
		gen.Float64Range(0, 10000),
	))

	properties.TestingRun(t)
}
