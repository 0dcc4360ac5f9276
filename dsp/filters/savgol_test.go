package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavitzkyGolayWeightsSumToOne(t *testing.T) {
	sg, err := NewSavitzkyGolay(51, 3)
	require.NoError(t, err)

	sum := 0.0
	for _, w := range sg.weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSavitzkyGolayPreservesCubic(t *testing.T) {
	// An order-3 fit reproduces a cubic exactly away from the mirrored
	// boundaries
	sg, err := NewSavitzkyGolay(7, 3)
	require.NoError(t, err)

	signal := make([]float64, 100)
	for i := range signal {
		x := float64(i) / 10
		signal[i] = 0.5*x*x*x - 2*x*x + x - 3
	}

	smoothed, err := sg.ProcessBuffer(signal)
	require.NoError(t, err)
	require.Len(t, smoothed, len(signal))

	for i := 3; i < len(signal)-3; i++ {
		assert.InDelta(t, signal[i], smoothed[i], 1e-8, "sample %d", i)
	}
}

func TestSavitzkyGolaySmoothsNoise(t *testing.T) {
	sg, err := NewSavitzkyGolay(51, 3)
	require.NoError(t, err)

	signal := make([]float64, 500)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 250)
		if i%2 == 0 {
			signal[i] += 0.2
		} else {
			signal[i] -= 0.2
		}
	}

	smoothed, err := sg.ProcessBuffer(signal)
	require.NoError(t, err)

	// Alternating noise is wideband and should be attenuated hard
	for i := 100; i < 400; i++ {
		assert.InDelta(t, math.Sin(2*math.Pi*float64(i)/250), smoothed[i], 0.1)
	}
}

func TestSavitzkyGolayRepeatedSmoothingStable(t *testing.T) {
	// Smoothing an already-smoothed signal changes interior samples
	// only marginally and never the length; the mirrored boundaries
	// are the single place a second pass may drift.
	sg, err := NewSavitzkyGolay(51, 3)
	require.NoError(t, err)

	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 500)
		if i%2 == 0 {
			signal[i] += 0.2
		} else {
			signal[i] -= 0.2
		}
	}

	once, err := sg.ProcessBuffer(signal)
	require.NoError(t, err)

	twice, err := sg.ProcessBuffer(once)
	require.NoError(t, err)
	require.Len(t, twice, len(once))

	half := sg.WindowLength() / 2
	for i := half; i < len(once)-half; i++ {
		assert.InDelta(t, once[i], twice[i], 0.05, "sample %d", i)
	}
}

func TestSavitzkyGolayRejectsBadParameters(t *testing.T) {
	_, err := NewSavitzkyGolay(50, 3)
	assert.Error(t, err, "even window length")

	_, err = NewSavitzkyGolay(0, 3)
	assert.Error(t, err)

	_, err = NewSavitzkyGolay(5, 5)
	assert.Error(t, err, "order not below window length")

	_, err = NewSavitzkyGolay(51, -1)
	assert.Error(t, err)
}

func TestSavitzkyGolayRejectsShortSignal(t *testing.T) {
	sg, err := NewSavitzkyGolay(51, 3)
	require.NoError(t, err)

	_, err = sg.ProcessBuffer(make([]float64, 50))
	assert.Error(t, err)
}
