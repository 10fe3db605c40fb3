package utils

import "math"

// Round1 rounds to one decimal place, half away from zero, after the caller
// has done the full-precision division.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Percentage computes part/total*100 rounded to one decimal. An empty
// population is 0.0, never a division error.
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0.0
	}
	return Round1(float64(part) / float64(total) * 100)
}
