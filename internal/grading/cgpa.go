package grading

import (
	"math"
	"strconv"

	"btebresults/internal/models"
)

// ComputeCGPA returns the mean of all present semester GPAs rounded to two
// decimal places, or 0 when no semester has a GPA.
//
// Rounding is math.Round on the value scaled by 100, i.e. halves round away
// from zero. GPAs are never negative so this is round-half-up.
func ComputeCGPA(gpas models.SemesterGPAs) float64 {
	var sum float64
	var count int
	for _, s := range gpas {
		if s.GPA == nil {
			continue
		}
		sum += *s.GPA
		count++
	}
	if count == 0 {
		return 0
	}
	return roundTo2(sum / float64(count))
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatGPA renders a GPA or CGPA with exactly two decimals
func FormatGPA(v float64) string {
	return strconv.FormatFloat(roundTo2(v), 'f', 2, 64)
}
