package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apnealab/somnograph/dsp/stats"
)

func TestNormalizeZeroMeanUnitStd(t *testing.T) {
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = 3.5 + 2.0*math.Sin(2*math.Pi*float64(i)/250)
	}

	normalized, err := Normalize(signal)
	require.NoError(t, err)
	require.Len(t, normalized, len(signal))

	assert.InDelta(t, 0.0, stats.Mean(normalized), 1e-9)
	assert.InDelta(t, 1.0, stats.StandardDeviation(normalized), 1e-9)
}

func TestNormalizeConstantSignalFails(t *testing.T) {
	signal := make([]float64, 100)
	for i := range signal {
		signal[i] = 7.0
	}

	_, err := Normalize(signal)
	require.ErrorIs(t, err, ErrDegenerateSignal)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	signal := []float64{1, 2, 3, 4, 5}
	input := append([]float64(nil), signal...)

	_, err := Normalize(signal)
	require.NoError(t, err)
	assert.Equal(t, input, signal)
}
