package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpectrogramBuilderOutputRange(t *testing.T) {
	builder, err := NewSpectrogramBuilder(DefaultConfig())
	require.NoError(t, err)

	samples := make([]float64, 6000)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 10 * float64(i) / 100)
	}

	spec, err := builder.Build(samples, 100, Window{Index: 0, TStart: 0, TEnd: 60})
	require.NoError(t, err)

	require.NotEmpty(t, spec.Magnitude)
	require.Len(t, spec.FreqAxis, len(spec.Magnitude[0]))
	assert.LessOrEqual(t, spec.FreqAxis[len(spec.FreqAxis)-1], 30.0)

	for _, frame := range spec.Magnitude {
		for _, value := range frame {
			assert.GreaterOrEqual(t, value, 0.0)
			assert.LessOrEqual(t, value, 1.0)
		}
	}
}

func TestSpectrogramBuilderDegenerateWindow(t *testing.T) {
	builder, err := NewSpectrogramBuilder(DefaultConfig())
	require.NoError(t, err)

	// All-zero samples produce an all-zero magnitude matrix
	samples := make([]float64, 6000)

	_, err = builder.Build(samples, 100, Window{Index: 3, TStart: 180, TEnd: 240})
	require.Error(t, err)

	var degenerate *DegenerateWindowError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, 3, degenerate.Index)
}

func TestMinMaxNormalizeMatrix(t *testing.T) {
	matrix := [][]float64{
		{2, 4},
		{6, 10},
	}

	require.NoError(t, minMaxNormalizeMatrix(matrix))
	assert.Equal(t, [][]float64{{0, 0.25}, {0.5, 1}}, matrix)

	constant := [][]float64{{3, 3}, {3, 3}}
	assert.Error(t, minMaxNormalizeMatrix(constant))
}
