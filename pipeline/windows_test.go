package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWindowsCount(t *testing.T) {
	tests := []struct {
		name       string
		numSamples int
		window     float64
		step       float64
		want       int
	}{
		{"exact tiling", 12000, 60, 60, 2},
		{"one sample short", 11999, 60, 60, 1},
		{"shorter than one window", 5999, 60, 60, 0},
		{"single window", 6000, 60, 60, 1},
		{"overlapping stride", 12000, 60, 30, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := GenerateWindows(tt.numSamples, 100, tt.window, tt.step, 0)
			assert.Len(t, windows, tt.want)
		})
	}
}

func TestGenerateWindowsNeverExceedBounds(t *testing.T) {
	const sampleRate = 100
	windows := GenerateWindows(25000, sampleRate, 60, 30, 0)
	require.NotEmpty(t, windows)

	for _, w := range windows {
		start, end := sampleBounds(w, sampleRate, 30, 60)
		assert.GreaterOrEqual(t, start, 0)
		assert.LessOrEqual(t, end, 25000)
		assert.Equal(t, 6000, end-start)
	}
}

func TestGenerateWindowsTimes(t *testing.T) {
	windows := GenerateWindows(12000, 100, 60, 60, 0)
	require.Len(t, windows, 2)

	assert.Equal(t, Window{Index: 0, TStart: 0, TEnd: 60}, windows[0])
	assert.Equal(t, Window{Index: 1, TStart: 60, TEnd: 120}, windows[1])
}

func TestGenerateWindowsOrigin(t *testing.T) {
	// Windows over a slice that starts mid-record keep absolute times
	windows := GenerateWindows(12000, 100, 60, 60, 300)
	require.Len(t, windows, 2)

	assert.Equal(t, 300.0, windows[0].TStart)
	assert.Equal(t, 360.0, windows[1].TStart)
}
