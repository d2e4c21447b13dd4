package alerting

import "math"

// ComputeMoodScore maps sadness+fear (each 0..100) onto a 1..5 score,
// 1 being the most distressed.
func ComputeMoodScore(sadness, fear float64) int {
	total := finiteOrZero(sadness) + finiteOrZero(fear)
	switch {
	case total >= 70:
		return 1
	case total >= 50:
		return 2
	case total >= 30:
		return 3
	case total >= 15:
		return 4
	default:
		return 5
	}
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
