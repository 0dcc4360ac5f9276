package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmplitudeAuditFixedThreshold(t *testing.T) {
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 100)
	}

	audit := NewAmplitudeAudit(signal, 3.0)

	// A pure sine never exceeds 3 sigma (peak/std = sqrt(2))
	assert.Equal(t, 0, audit.Count(signal))
	require.Greater(t, audit.Threshold(), 0.0)

	// The threshold does not move when the audited signal changes
	threshold := audit.Threshold()
	spiky := append([]float64(nil), signal...)
	spiky[10] = 100
	spiky[20] = -100

	assert.Equal(t, 2, audit.Count(spiky))
	assert.Equal(t, threshold, audit.Threshold())
}
