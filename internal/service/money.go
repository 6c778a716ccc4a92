package service

import "math"

// roundCents rounds an amount to two decimals.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundCentsPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := roundCents(*v)
	return &r
}
