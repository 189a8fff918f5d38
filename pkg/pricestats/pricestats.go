// Package pricestats reduces observed sale prices to central-tendency
// and dispersion statistics used as resale estimates.
package pricestats

import (
	"math"
	"sort"

	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// Summarize computes count, median, quartiles, IQR, sample standard
// deviation, and min/max over the positive values in prices. Nil and
// non-positive observations are excluded first; an empty filtered set
// yields a zero-count result with every other field nil.
func Summarize(prices []*float64) domain.PriceStatistics {
	clean := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p != nil && *p > 0 {
			clean = append(clean, *p)
		}
	}

	return SummarizeValues(clean)
}

// SummarizeValues behaves like Summarize over an already-materialized
// value slice, still excluding non-positive observations.
func SummarizeValues(prices []float64) domain.PriceStatistics {
	clean := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p > 0 {
			clean = append(clean, p)
		}
	}

	if len(clean) == 0 {
		return domain.PriceStatistics{Count: 0}
	}

	sorted := make([]float64, len(clean))
	copy(sorted, clean)
	sort.Float64s(sorted)

	med := median(sorted)
	p25 := Percentile(sorted, 0.25)
	p75 := Percentile(sorted, 0.75)
	iqr := p75 - p25
	sd := sampleStdDev(sorted)

	return domain.PriceStatistics{
		Count:  len(sorted),
		Median: &med,
		P25:    &p25,
		P75:    &p75,
		IQR:    &iqr,
		StdDev: &sd,
		Min:    &sorted[0],
		Max:    &sorted[len(sorted)-1],
	}
}

// median returns the middle value of an ascending-sorted non-empty
// slice, averaging the two middle values for even counts.
func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}

// Percentile computes the interpolated percentile p of an
// ascending-sorted non-empty slice using index = (n-1)*p with linear
// interpolation between the bracketing order statistics. p <= 0
// returns the minimum and p >= 1 the maximum.
func Percentile(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	idx := float64(len(sorted)-1) * p
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// sampleStdDev computes the sample standard deviation with divisor
// n-1, treating n=1 as divisor 1.
func sampleStdDev(values []float64) float64 {
	n := len(values)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}

	divisor := n - 1
	if divisor < 1 {
		divisor = 1
	}

	return math.Sqrt(sq / float64(divisor))
}
