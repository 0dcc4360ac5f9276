package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions used across the pipeline, backed by gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Variance calculates the population variance of a slice
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	mean := stat.Mean(data, nil)
	sumSquares := 0.0
	for _, val := range data {
		diff := val - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(data))
}

// StandardDeviation calculates the population standard deviation
func StandardDeviation(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// MinMax returns the minimum and maximum of a slice using gonum
func MinMax(data []float64) (minVal, maxVal float64) {
	if len(data) == 0 {
		return 0.0, 0.0
	}
	return floats.Min(data), floats.Max(data)
}

// CountAbsAbove counts samples whose absolute value exceeds the threshold
func CountAbsAbove(data []float64, threshold float64) int {
	count := 0
	for _, val := range data {
		if math.Abs(val) > threshold {
			count++
		}
	}
	return count
}
