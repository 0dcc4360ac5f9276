package filters

import (
	"fmt"
	"math"
)

// HighpassFilter implements a digital Butterworth high-pass filter as a
// cascade of biquad sections.
//
// The biquad coefficients use the cookbook formulas from Robert
// Bristow-Johnson's "Cookbook formulae for audio EQ biquad filter
// coefficients". An order-2N Butterworth response is realized as N
// second-order sections whose Q values come from the Butterworth pole
// angles: Q_k = 1 / (2*sin(theta_k)), theta_k = pi*(2k+1)/(2*order).
type HighpassFilter struct {
	sampleRate int
	cutoffFreq float64
	order      int

	sections []biquad
}

// biquad is one direct form II second-order section
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	w1, w2 float64 // delay line
}

// NewHighpassFilter creates a Butterworth high-pass filter.
//
// Parameters:
//   - sampleRate: Sample rate in Hz
//   - cutoffFreq: -3dB cutoff frequency in Hz, must lie in (0, Nyquist)
//   - order: filter order, must be a positive even number
func NewHighpassFilter(sampleRate int, cutoffFreq float64, order int) (*HighpassFilter, error) {
	if cutoffFreq <= 0 || cutoffFreq >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("cutoff frequency must be between 0 and Nyquist frequency (%g Hz)", float64(sampleRate)/2)
	}

	if order <= 0 || order%2 != 0 {
		return nil, fmt.Errorf("filter order must be a positive even number, got %d", order)
	}

	hf := &HighpassFilter{
		sampleRate: sampleRate,
		cutoffFreq: cutoffFreq,
		order:      order,
	}

	hf.computeCoefficients()
	return hf, nil
}

// computeCoefficients builds the biquad cascade using the cookbook
// high-pass formula, one section per Butterworth pole pair.
func (hf *HighpassFilter) computeCoefficients() {
	// Normalize frequency: w0 = 2*pi*f0/Fs
	w0 := 2.0 * math.Pi * hf.cutoffFreq / float64(hf.sampleRate)

	// Prevent numerical issues at Nyquist
	if w0 >= math.Pi {
		w0 = math.Pi * 0.99
	}

	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)

	numSections := hf.order / 2
	hf.sections = make([]biquad, numSections)

	for k := 0; k < numSections; k++ {
		theta := math.Pi * float64(2*k+1) / float64(2*hf.order)
		q := 1.0 / (2.0 * math.Sin(theta))

		alpha := sinW0 / (2.0 * q)

		// High-pass coefficients (cookbook formula)
		b0 := (1.0 + cosW0) / 2.0
		b1 := -(1.0 + cosW0)
		b2 := (1.0 + cosW0) / 2.0
		a0 := 1.0 + alpha
		a1 := -2.0 * cosW0
		a2 := 1.0 - alpha

		hf.sections[k] = biquad{
			b0: b0 / a0,
			b1: b1 / a0,
			b2: b2 / a0,
			a1: a1 / a0,
			a2: a2 / a0,
		}
	}
}

// process runs one sample through one direct form II section
func (s *biquad) process(input float64) float64 {
	w := input - s.a1*s.w1 - s.a2*s.w2
	output := s.b0*w + s.b1*s.w1 + s.b2*s.w2

	s.w2 = s.w1
	s.w1 = w

	return output
}

// Process applies the filter cascade to a single sample
func (hf *HighpassFilter) Process(input float64) float64 {
	sample := input
	for k := range hf.sections {
		sample = hf.sections[k].process(sample)
	}
	return sample
}

// ProcessBuffer applies the filter to an entire buffer of samples
func (hf *HighpassFilter) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = hf.Process(sample)
	}
	return output
}

// FiltFilt applies the filter forward and then backward, canceling the
// phase distortion of each pass. The effective magnitude response is
// the square of the single-pass response. The internal state is reset
// before each pass, so the input is treated as one contiguous segment.
func (hf *HighpassFilter) FiltFilt(input []float64) []float64 {
	hf.Reset()
	forward := hf.ProcessBuffer(input)

	reverseInPlace(forward)

	hf.Reset()
	backward := hf.ProcessBuffer(forward)

	reverseInPlace(backward)
	return backward
}

// Reset clears the delay lines of every section.
// Call this when processing discontinuous segments.
func (hf *HighpassFilter) Reset() {
	for k := range hf.sections {
		hf.sections[k].w1 = 0.0
		hf.sections[k].w2 = 0.0
	}
}

// GetParameters returns the current filter parameters
func (hf *HighpassFilter) GetParameters() (cutoffFreq float64, order int) {
	return hf.cutoffFreq, hf.order
}

func reverseInPlace(data []float64) {
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
}
