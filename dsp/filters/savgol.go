package filters

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SavitzkyGolay implements a Savitzky-Golay smoothing filter.
//
// The filter fits a polynomial of the configured order to each
// window-length neighborhood by linear least squares and replaces the
// center sample with the fitted value. Unlike a moving average this
// preserves peak shape and width, which matters for ECG morphology.
//
// The least-squares fit reduces to a fixed convolution: the weight
// vector is the center row of the pseudoinverse of the Vandermonde
// design matrix, computed once at construction with gonum/mat.
// Boundary samples use the same mirror padding convention as Median.
type SavitzkyGolay struct {
	windowLength int
	polyOrder    int
	weights      []float64
}

// NewSavitzkyGolay creates a Savitzky-Golay filter.
//
// The window length must be odd and the polynomial order strictly
// smaller than the window length.
func NewSavitzkyGolay(windowLength, polyOrder int) (*SavitzkyGolay, error) {
	if windowLength <= 0 || windowLength%2 == 0 {
		return nil, fmt.Errorf("savgol window length must be a positive odd number, got %d", windowLength)
	}

	if polyOrder < 0 || polyOrder >= windowLength {
		return nil, fmt.Errorf("savgol polynomial order (%d) must be in [0, window length), window length is %d", polyOrder, windowLength)
	}

	sg := &SavitzkyGolay{
		windowLength: windowLength,
		polyOrder:    polyOrder,
	}

	if err := sg.computeWeights(); err != nil {
		return nil, err
	}

	return sg, nil
}

// computeWeights solves for the convolution weights.
//
// With A the windowLength x (polyOrder+1) Vandermonde matrix over
// offsets -half..half, the fitted center value is row 0 of
// (A^T A)^-1 A^T applied to the neighborhood.
func (sg *SavitzkyGolay) computeWeights() error {
	half := sg.windowLength / 2
	cols := sg.polyOrder + 1

	design := mat.NewDense(sg.windowLength, cols, nil)
	for i := 0; i < sg.windowLength; i++ {
		x := float64(i - half)
		pow := 1.0
		for j := 0; j < cols; j++ {
			design.Set(i, j, pow)
			pow *= x
		}
	}

	var gram mat.Dense
	gram.Mul(design.T(), design)

	var pinv mat.Dense
	if err := pinv.Solve(&gram, design.T()); err != nil {
		return fmt.Errorf("savgol design matrix is singular: %w", err)
	}

	sg.weights = mat.Row(nil, 0, &pinv)
	return nil
}

// ProcessBuffer applies the smoothing filter and returns a new slice of
// identical length. The signal must be at least one window long.
func (sg *SavitzkyGolay) ProcessBuffer(signal []float64) ([]float64, error) {
	if len(signal) < sg.windowLength {
		return nil, fmt.Errorf("signal length (%d) shorter than savgol window (%d)", len(signal), sg.windowLength)
	}

	half := sg.windowLength / 2
	output := make([]float64, len(signal))

	for i := range signal {
		acc := 0.0
		for j := -half; j <= half; j++ {
			acc += sg.weights[j+half] * signal[mirrorIndex(i+j, len(signal))]
		}
		output[i] = acc
	}

	return output, nil
}

// WindowLength returns the configured window length
func (sg *SavitzkyGolay) WindowLength() int {
	return sg.windowLength
}

// PolyOrder returns the configured polynomial order
func (sg *SavitzkyGolay) PolyOrder() int {
	return sg.polyOrder
}
