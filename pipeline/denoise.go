package pipeline

import (
	"github.com/apnealab/somnograph/dsp/filters"
	"github.com/apnealab/somnograph/logging"
)

// Stage names as they appear in reports and logs
const (
	StageRaw      = "raw"
	StageMedian   = "median"
	StageSavgol   = "savgol"
	StageHighpass = "highpass"
)

// StageAudit records the out-of-threshold sample count after one stage
type StageAudit struct {
	Stage        string `json:"stage"`
	NoisySamples int    `json:"noisy_samples"`
}

// DenoiseResult carries the cleaned signal and the audit trail
type DenoiseResult struct {
	Signal          []float64    `json:"-"`
	Threshold       float64      `json:"threshold"`
	Audits          []StageAudit `json:"audits"`
	HighpassApplied bool         `json:"highpass_applied"`
}

// Denoiser runs the ordered chain: median filter, Savitzky-Golay
// smoothing, then a zero-phase Butterworth high-pass that only runs if
// the amplitude audit still finds out-of-threshold samples after
// smoothing. Each stage consumes its predecessor's output and produces
// a new slice of identical length.
type Denoiser struct {
	cfg    *Config
	logger logging.Logger
}

// NewDenoiser creates a denoiser for the given configuration
func NewDenoiser(cfg *Config, logger logging.Logger) *Denoiser {
	if logger == nil {
		logger = logging.WithFields(logging.Fields{"component": "denoiser"})
	}

	return &Denoiser{
		cfg:    cfg,
		logger: logger,
	}
}

// Process cleans the signal and returns it together with the per-stage
// audit counts. The audit threshold is fixed once from the raw signal
// and never recomputed, so counts across stages are comparable.
func (d *Denoiser) Process(signal []float64, sampleRate int) (*DenoiseResult, error) {
	audit := filters.NewAmplitudeAudit(signal, d.cfg.NoiseThresholdSigma)

	result := &DenoiseResult{
		Threshold: audit.Threshold(),
		Audits: []StageAudit{
			{Stage: StageRaw, NoisySamples: audit.Count(signal)},
		},
	}

	median, err := filters.NewMedian(d.cfg.MedianKernelSize)
	if err != nil {
		return nil, &ConfigError{Stage: StageMedian, Err: err}
	}

	current, err := median.ProcessBuffer(signal)
	if err != nil {
		return nil, &ConfigError{Stage: StageMedian, Err: err}
	}
	result.Audits = append(result.Audits, StageAudit{Stage: StageMedian, NoisySamples: audit.Count(current)})

	savgol, err := filters.NewSavitzkyGolay(d.cfg.SavgolWindowLength, d.cfg.SavgolPolyOrder)
	if err != nil {
		return nil, &ConfigError{Stage: StageSavgol, Err: err}
	}

	current, err = savgol.ProcessBuffer(current)
	if err != nil {
		return nil, &ConfigError{Stage: StageSavgol, Err: err}
	}

	noisyAfterSmoothing := audit.Count(current)
	result.Audits = append(result.Audits, StageAudit{Stage: StageSavgol, NoisySamples: noisyAfterSmoothing})

	// The high-pass is gated on the audit so an already-clean signal
	// skips the extra pass and its boundary artifacts.
	if noisyAfterSmoothing > 0 {
		highpass, err := filters.NewHighpassFilter(sampleRate, d.cfg.HighpassCutoffHz, d.cfg.HighpassOrder)
		if err != nil {
			return nil, &ConfigError{Stage: StageHighpass, Err: err}
		}

		current = highpass.FiltFilt(current)
		result.HighpassApplied = true
		result.Audits = append(result.Audits, StageAudit{Stage: StageHighpass, NoisySamples: audit.Count(current)})
	} else {
		d.logger.Debug("signal clean after smoothing, skipping high-pass", logging.Fields{
			"threshold": audit.Threshold(),
		})
	}

	result.Signal = current
	return result, nil
}
