package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighpassRemovesDC(t *testing.T) {
	hf, err := NewHighpassFilter(100, 0.5, 4)
	require.NoError(t, err)

	signal := make([]float64, 2000)
	for i := range signal {
		signal[i] = 1.0
	}

	filtered := hf.FiltFilt(signal)
	require.Len(t, filtered, len(signal))

	// Away from the edge transients the DC level is gone
	for i := 800; i < 1200; i++ {
		assert.InDelta(t, 0.0, filtered[i], 0.05, "sample %d", i)
	}
}

func TestHighpassPassesBand(t *testing.T) {
	hf, err := NewHighpassFilter(100, 0.5, 4)
	require.NoError(t, err)

	// 5 Hz is a decade above the 0.5 Hz cutoff
	signal := make([]float64, 2000)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 5 * float64(i) / 100)
	}

	filtered := hf.FiltFilt(signal)

	for i := 800; i < 1200; i++ {
		assert.InDelta(t, signal[i], filtered[i], 0.05, "sample %d", i)
	}
}

func TestHighpassRejectsBadParameters(t *testing.T) {
	_, err := NewHighpassFilter(100, 0, 4)
	assert.Error(t, err, "zero cutoff")

	_, err = NewHighpassFilter(100, 60, 4)
	assert.Error(t, err, "cutoff above Nyquist")

	_, err = NewHighpassFilter(100, 0.5, 3)
	assert.Error(t, err, "odd order")

	_, err = NewHighpassFilter(100, 0.5, 0)
	assert.Error(t, err)
}

func TestHighpassSectionCount(t *testing.T) {
	hf, err := NewHighpassFilter(100, 0.5, 4)
	require.NoError(t, err)
	assert.Len(t, hf.sections, 2)

	cutoff, order := hf.GetParameters()
	assert.Equal(t, 0.5, cutoff)
	assert.Equal(t, 4, order)
}
