package models

import "math"

// ListingGain returns the percentage change from IPO price to listing price,
// rounded to two decimals. The result is nil when either price is missing or
// the IPO price is zero; absence means "not computable", never zero.
func ListingGain(ipoPrice, listingPrice *float64) *float64 {
	return percentChange(ipoPrice, listingPrice)
}

// CurrentReturn returns the percentage change from IPO price to current
// market price under the same guards as ListingGain.
func CurrentReturn(ipoPrice, currentMarketPrice *float64) *float64 {
	return percentChange(ipoPrice, currentMarketPrice)
}

func percentChange(base, current *float64) *float64 {
	if base == nil || current == nil || *base == 0 {
		return nil
	}
	v := Round2(((*current - *base) / *base) * 100)
	return &v
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
