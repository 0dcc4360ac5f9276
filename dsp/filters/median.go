package filters

import (
	"fmt"
	"sort"
)

// Median implements a running median filter for impulse noise removal.
//
// Each output sample is the median of the kernel-sized neighborhood
// centered on the input sample. Boundary samples use mirror padding:
// the sample at index -1 is taken from index 1, the sample at index n
// from index n-2. This convention affects only the first and last
// kernel/2 samples and is fixed so that results are reproducible.
type Median struct {
	kernelSize int
}

// NewMedian creates a running median filter with the given kernel size.
// The kernel size must be a positive odd number.
func NewMedian(kernelSize int) (*Median, error) {
	if kernelSize <= 0 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("median kernel size must be a positive odd number, got %d", kernelSize)
	}

	return &Median{kernelSize: kernelSize}, nil
}

// ProcessBuffer applies the median filter to the whole signal and
// returns a new slice of identical length.
func (m *Median) ProcessBuffer(signal []float64) ([]float64, error) {
	if len(signal) < m.kernelSize {
		return nil, fmt.Errorf("signal length (%d) shorter than median kernel (%d)", len(signal), m.kernelSize)
	}

	half := m.kernelSize / 2
	output := make([]float64, len(signal))
	neighborhood := make([]float64, m.kernelSize)

	for i := range signal {
		for j := -half; j <= half; j++ {
			neighborhood[j+half] = signal[mirrorIndex(i+j, len(signal))]
		}
		sort.Float64s(neighborhood)
		output[i] = neighborhood[half]
	}

	return output, nil
}

// KernelSize returns the configured kernel size
func (m *Median) KernelSize() int {
	return m.kernelSize
}

// mirrorIndex reflects an out-of-range index back into [0, n) without
// repeating the edge sample
func mirrorIndex(i, n int) int {
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - i - 2
	}
	return i
}
