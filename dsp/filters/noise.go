package filters

import (
	"github.com/apnealab/somnograph/dsp/stats"
)

// AmplitudeAudit counts out-of-threshold samples against a threshold
// that is fixed once from the raw signal and reused unchanged across
// every denoising stage. Re-deriving the threshold from an already
// filtered signal would make the audit drift with its own input.
type AmplitudeAudit struct {
	threshold float64
}

// NewAmplitudeAudit fixes the audit threshold at multiplier times the
// standard deviation of the reference signal.
func NewAmplitudeAudit(reference []float64, multiplier float64) *AmplitudeAudit {
	return &AmplitudeAudit{
		threshold: multiplier * stats.StandardDeviation(reference),
	}
}

// Threshold returns the fixed amplitude threshold
func (a *AmplitudeAudit) Threshold() float64 {
	return a.threshold
}

// Count returns the number of samples whose absolute value exceeds the
// fixed threshold.
func (a *AmplitudeAudit) Count(signal []float64) int {
	return stats.CountAbsAbove(signal, a.threshold)
}
