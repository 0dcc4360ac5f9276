package pipeline

import (
	"github.com/apnealab/somnograph/dsp/contrast"
	"github.com/apnealab/somnograph/dsp/spectral"
	"github.com/apnealab/somnograph/dsp/windowing"
)

// Spectrogram is the finished time-frequency tile for one window:
// band-truncated, min-max normalized, contrast equalized.
type Spectrogram struct {
	Window    Window      `json:"window"`
	FreqAxis  []float64   `json:"freq_axis"` // Hz per retained bin
	Magnitude [][]float64 `json:"magnitude"` // Time x Frequency, values in [0, 1]
}

// SpectrogramBuilder turns a slice of the normalized signal into a
// Spectrogram. The Hann analysis window and the equalizer are built
// once and shared across windows; both are read-only after
// construction, so Build is safe to call from multiple goroutines.
type SpectrogramBuilder struct {
	cfg       *Config
	stft      *spectral.STFT
	hann      *windowing.Hann
	equalizer *contrast.Equalizer
}

// NewSpectrogramBuilder creates a builder for the given configuration
func NewSpectrogramBuilder(cfg *Config) (*SpectrogramBuilder, error) {
	equalizer, err := contrast.NewEqualizer(cfg.ClipLimit)
	if err != nil {
		return nil, &ConfigError{Stage: "equalize", Err: err}
	}

	return &SpectrogramBuilder{
		cfg:       cfg,
		stft:      spectral.NewSTFT(),
		hann:      windowing.NewHann(cfg.SegmentLength, false),
		equalizer: equalizer,
	}, nil
}

// Build computes the spectrogram for one window's samples.
//
// A window whose truncated magnitude matrix is constant returns
// DegenerateWindowError; the caller skips that window and keeps going.
func (b *SpectrogramBuilder) Build(samples []float64, sampleRate int, w Window) (*Spectrogram, error) {
	result, err := b.stft.ComputeWithWindow(samples, b.cfg.SegmentLength, b.cfg.HopSize(), sampleRate, b.hann)
	if err != nil {
		return nil, &ConfigError{Stage: "stft", Err: err}
	}

	result.TruncateAbove(b.cfg.FreqCutoffHz)

	if err := minMaxNormalizeMatrix(result.Magnitude); err != nil {
		return nil, &DegenerateWindowError{Index: w.Index}
	}

	equalized, err := b.equalizer.Equalize(result.Magnitude)
	if err != nil {
		return nil, &DegenerateWindowError{Index: w.Index}
	}

	return &Spectrogram{
		Window:    w,
		FreqAxis:  result.FrequencyAxis(),
		Magnitude: equalized,
	}, nil
}

// minMaxNormalizeMatrix rescales the whole matrix to [0, 1] in place
// using the matrix-wide minimum and maximum. The per-window scope is
// deliberate: every tile is independently contrast-normalized so one
// loud window cannot wash out the rest of the batch.
func minMaxNormalizeMatrix(matrix [][]float64) error {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return ErrDegenerateSignal
	}

	minVal, maxVal := matrix[0][0], matrix[0][0]
	for _, row := range matrix {
		for _, val := range row {
			if val < minVal {
				minVal = val
			}
			if val > maxVal {
				maxVal = val
			}
		}
	}

	span := maxVal - minVal
	if span < varianceEpsilon {
		return ErrDegenerateSignal
	}

	for _, row := range matrix {
		for i, val := range row {
			row[i] = (val - minVal) / span
		}
	}

	return nil
}
