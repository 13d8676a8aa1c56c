// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/matchday-dashboard/pkg/constants"
)

// Round rounds a value to one decimal, the precision exported averages are written with.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsInteger reports whether val is a finite whole number.
func IsInteger(val float64) bool {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return false
	}
	return val == math.Trunc(val)
}

// Sum adds the values in order.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
