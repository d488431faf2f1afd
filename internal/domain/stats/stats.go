// Package stats computes the descriptive statistics printed alongside a run:
// quartiles of the level column and the percentile rank of the requested wage.
package stats

import (
	"math"
	"sort"
)

// Summary describes the distribution of a wage column.
type Summary struct {
	Count  int
	Min    float64
	P25    float64
	Median float64
	P75    float64
	Max    float64
}

// Describe summarizes the non-missing values. ok is false when no numeric
// values are present.
func Describe(values []float64) (Summary, bool) {
	clean := compact(values)
	if len(clean) == 0 {
		return Summary{}, false
	}
	sort.Float64s(clean)

	return Summary{
		Count:  len(clean),
		Min:    clean[0],
		P25:    quantile(clean, 0.25),
		Median: quantile(clean, 0.50),
		P75:    quantile(clean, 0.75),
		Max:    clean[len(clean)-1],
	}, true
}

// PercentileRank returns the share of non-missing values <= x, as a
// percentage. Returns 0 when no numeric values are present.
func PercentileRank(values []float64, x float64) float64 {
	clean := compact(values)
	if len(clean) == 0 {
		return 0
	}
	n := 0
	for _, v := range clean {
		if v <= x {
			n++
		}
	}
	return float64(n) / float64(len(clean)) * 100
}

// quantile computes the q-th quantile of sorted values using linear
// interpolation between order statistics.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// compact drops NaN entries without mutating the input.
func compact(values []float64) []float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	return clean
}
