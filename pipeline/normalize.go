package pipeline

import (
	"github.com/apnealab/somnograph/dsp/stats"
)

// zero-variance guard for floating point comparisons
const varianceEpsilon = 1e-12

// Normalize z-scores the signal over its entire length: subtract the
// global mean, divide by the global standard deviation. A constant
// signal has no scale to normalize by and returns ErrDegenerateSignal
// instead of silently emitting NaN values.
func Normalize(signal []float64) ([]float64, error) {
	std := stats.StandardDeviation(signal)
	if std < varianceEpsilon {
		return nil, ErrDegenerateSignal
	}

	mean := stats.Mean(signal)
	normalized := make([]float64, len(signal))
	for i, val := range signal {
		normalized[i] = (val - mean) / std
	}

	return normalized, nil
}
