package utils

import "math"

// Round2 rounds to 2 decimal places (half away from zero)
// Distances and RSSI values are reported at this precision everywhere.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsFinite reports whether v is a usable coordinate value
// (not NaN and not ±Inf).
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
