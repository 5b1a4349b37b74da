// Package stats provides the small set of descriptive statistics the quality
// engine and the signal-processing helpers need. All functions operate on raw
// float64 slices and never panic on short input.
package stats

import (
	"math"
	"sort"
)

// SafeFloat maps NaN and ±Inf to 0 so degraded metrics stay representable
// in JSON and classification thresholds.
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}

// Mean returns the arithmetic mean, or NaN for empty input.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Std returns the population standard deviation (divisor N), or NaN for
// empty input. Population form matches the variability definition used for
// SDNN.
func Std(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	mean := Mean(data)
	sumSquares := 0.0
	for _, v := range data {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(data)))
}

// Diff returns successive differences data[i+1]-data[i].
func Diff(data []float64) []float64 {
	if len(data) <= 1 {
		return []float64{}
	}
	result := make([]float64, len(data)-1)
	for i := 1; i < len(data); i++ {
		result[i-1] = data[i] - data[i-1]
	}
	return result
}

// Kurtosis returns the Pearson kurtosis (fourth standardized moment, no
// Fisher adjustment, so a normal distribution scores 3). Returns NaN when
// the input has fewer than 2 samples or zero variance.
func Kurtosis(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	mean := Mean(data)
	var m2, m4 float64
	for _, v := range data {
		d := v - mean
		d2 := d * d
		m2 += d2
		m4 += d2 * d2
	}
	n := float64(len(data))
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return math.NaN()
	}
	return m4 / (m2 * m2)
}

// Percentile returns the p-th percentile (0-100) using linear interpolation
// between closest ranks, or NaN for empty input.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	n := float64(len(sorted) - 1)
	index := (p / 100.0) * n

	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Correlation returns the Pearson correlation coefficient of two equal-length
// series, or NaN when the lengths differ, the input is empty, or either
// series has zero variance.
func Correlation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.NaN()
	}
	meanA := Mean(a)
	meanB := Mean(b)
	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varA*varB)
}

// MinMax returns the smallest and largest values, or (NaN, NaN) for empty
// input.
func MinMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return math.NaN(), math.NaN()
	}
	min, max := data[0], data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
