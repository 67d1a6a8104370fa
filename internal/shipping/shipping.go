// Package shipping prices parcels by weight and distance.
package shipping

import (
	"errors"
	"math"
)

const (
	RatePerPound = 0.50
	RatePerMile  = 0.10
)

var (
	ErrNonPositive = errors.New("weight and distance must be greater than 0")
	ErrNotFinite   = errors.New("weight and distance must be valid numbers")
)

// Calculate returns weight*RatePerPound + distance*RatePerMile.
func Calculate(weight, distance float64) (float64, error) {
	if weight <= 0 || distance <= 0 {
		return 0, ErrNonPositive
	}
	if !isFinite(weight) || !isFinite(distance) {
		return 0, ErrNotFinite
	}
	return weight*RatePerPound + distance*RatePerMile, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
