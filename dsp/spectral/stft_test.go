package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apnealab/somnograph/dsp/windowing"
)

func sineSignal(n int, freq, sampleRate float64) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return signal
}

func TestSTFTFrameCount(t *testing.T) {
	stft := NewSTFT()
	signal := sineSignal(6000, 5, 100)

	result, err := stft.ComputeWithWindow(signal, 1024, 102, 100, windowing.NewHann(1024, false))
	require.NoError(t, err)

	// (6000 - 1024) / 102 + 1
	assert.Equal(t, 49, result.TimeFrames)
	assert.Equal(t, 1024/2+1, result.FreqBins)
	assert.Len(t, result.Magnitude, 49)
	assert.Len(t, result.Magnitude[0], 513)
}

func TestSTFTPeakAtSignalFrequency(t *testing.T) {
	stft := NewSTFT()
	signal := sineSignal(6000, 10, 100)

	result, err := stft.ComputeWithWindow(signal, 1024, 512, 100, windowing.NewHann(1024, false))
	require.NoError(t, err)

	// The 10 Hz bin dominates every frame
	expectedBin := int(10.0 / result.FreqResolution)
	for frame := range result.Magnitude {
		peakBin := 0
		for bin, mag := range result.Magnitude[frame] {
			if mag > result.Magnitude[frame][peakBin] {
				peakBin = bin
			}
		}
		assert.InDelta(t, expectedBin, peakBin, 1, "frame %d", frame)
	}
}

func TestSTFTTruncateAbove(t *testing.T) {
	stft := NewSTFT()
	signal := sineSignal(6000, 5, 100)

	result, err := stft.ComputeWithWindow(signal, 1024, 102, 100, windowing.NewHann(1024, false))
	require.NoError(t, err)

	kept := result.TruncateAbove(30.0)
	require.Equal(t, kept, result.FreqBins)

	axis := result.FrequencyAxis()
	require.Len(t, axis, kept)
	assert.LessOrEqual(t, axis[len(axis)-1], 30.0)
	assert.Greater(t, axis[len(axis)-1]+result.FreqResolution, 30.0)

	for _, frame := range result.Magnitude {
		assert.Len(t, frame, kept)
	}
}

func TestSTFTRejectsBadInput(t *testing.T) {
	stft := NewSTFT()

	_, err := stft.ComputeWithWindow(nil, 1024, 102, 100, nil)
	assert.Error(t, err, "empty signal")

	_, err = stft.ComputeWithWindow(sineSignal(100, 5, 100), 1024, 102, 100, nil)
	assert.Error(t, err, "signal shorter than one segment")

	_, err = stft.ComputeWithWindow(sineSignal(6000, 5, 100), 0, 102, 100, nil)
	assert.Error(t, err)

	_, err = stft.ComputeWithWindow(sineSignal(6000, 5, 100), 1024, 0, 100, nil)
	assert.Error(t, err)
}
