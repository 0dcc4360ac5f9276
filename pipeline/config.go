package pipeline

// Config holds every tunable of the conditioning and segmentation
// pipeline. All fields have working defaults; zero values are not
// meaningful, start from DefaultConfig and override.
type Config struct {
	// Denoising chain
	MedianKernelSize    int     `json:"median_kernel_size" yaml:"median_kernel_size"`
	SavgolWindowLength  int     `json:"savgol_window_length" yaml:"savgol_window_length"`
	SavgolPolyOrder     int     `json:"savgol_poly_order" yaml:"savgol_poly_order"`
	HighpassCutoffHz    float64 `json:"highpass_cutoff_hz" yaml:"highpass_cutoff_hz"`
	HighpassOrder       int     `json:"highpass_order" yaml:"highpass_order"`
	NoiseThresholdSigma float64 `json:"noise_threshold_sigma" yaml:"noise_threshold_sigma"`

	// Spectrogram geometry
	SegmentLength   int     `json:"segment_length" yaml:"segment_length"`     // FFT segment length in samples
	OverlapFraction float64 `json:"overlap_fraction" yaml:"overlap_fraction"` // FFT segment overlap, 0..1
	FreqCutoffHz    float64 `json:"freq_cutoff_hz" yaml:"freq_cutoff_hz"`     // retained band upper bound
	WindowSeconds   float64 `json:"window_seconds" yaml:"window_seconds"`
	StepSeconds     float64 `json:"step_seconds" yaml:"step_seconds"`
	ClipLimit       float64 `json:"clip_limit" yaml:"clip_limit"` // equalization clip limit

	// Labeling
	EventSeconds float64 `json:"event_seconds" yaml:"event_seconds"` // annotation granularity

	// Analysis range, seconds from record start. EndSeconds of 0 means
	// the full record.
	StartSeconds float64 `json:"start_seconds" yaml:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds" yaml:"end_seconds"`

	// Worker pool size for per-window processing, 0 means NumCPU
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultConfig returns the reference configuration: 5-sample median,
// 51/3 Savitzky-Golay, 0.5 Hz order-4 high-pass gated at 3 sigma,
// 1024-point STFT at 90% overlap truncated to 30 Hz, non-overlapping
// 60 s windows, 60 s annotation granularity, 0.03 equalization clip.
func DefaultConfig() *Config {
	return &Config{
		MedianKernelSize:    5,
		SavgolWindowLength:  51,
		SavgolPolyOrder:     3,
		HighpassCutoffHz:    0.5,
		HighpassOrder:       4,
		NoiseThresholdSigma: 3.0,
		SegmentLength:       1024,
		OverlapFraction:     0.90,
		FreqCutoffHz:        30.0,
		WindowSeconds:       60.0,
		StepSeconds:         60.0,
		ClipLimit:           0.03,
		EventSeconds:        60.0,
		StartSeconds:        0.0,
		EndSeconds:          0.0,
	}
}

// HopSize converts the overlap fraction into the STFT hop in samples
func (c *Config) HopSize() int {
	hop := int(float64(c.SegmentLength)*(1.0-c.OverlapFraction) + 0.5)
	return max(hop, 1)
}

// Validate checks the parameters that do not depend on the input
// signal. Signal-dependent checks (window vs signal length) happen
// when the pipeline runs.
func (c *Config) Validate() error {
	if c.MedianKernelSize <= 0 || c.MedianKernelSize%2 == 0 {
		return &ConfigError{Stage: "median", Reason: "kernel size must be a positive odd number"}
	}
	if c.SavgolWindowLength <= 0 || c.SavgolWindowLength%2 == 0 {
		return &ConfigError{Stage: "savgol", Reason: "window length must be a positive odd number"}
	}
	if c.SavgolPolyOrder < 0 || c.SavgolPolyOrder >= c.SavgolWindowLength {
		return &ConfigError{Stage: "savgol", Reason: "polynomial order must be in [0, window length)"}
	}
	if c.HighpassCutoffHz <= 0 {
		return &ConfigError{Stage: "highpass", Reason: "cutoff frequency must be positive"}
	}
	if c.HighpassOrder <= 0 || c.HighpassOrder%2 != 0 {
		return &ConfigError{Stage: "highpass", Reason: "order must be a positive even number"}
	}
	if c.NoiseThresholdSigma <= 0 {
		return &ConfigError{Stage: "audit", Reason: "noise threshold multiplier must be positive"}
	}
	if c.SegmentLength <= 0 {
		return &ConfigError{Stage: "stft", Reason: "segment length must be positive"}
	}
	if c.OverlapFraction < 0 || c.OverlapFraction >= 1 {
		return &ConfigError{Stage: "stft", Reason: "overlap fraction must be in [0, 1)"}
	}
	if c.FreqCutoffHz <= 0 {
		return &ConfigError{Stage: "stft", Reason: "frequency cutoff must be positive"}
	}
	if c.WindowSeconds <= 0 || c.StepSeconds <= 0 {
		return &ConfigError{Stage: "windows", Reason: "window and step durations must be positive"}
	}
	if c.ClipLimit <= 0 || c.ClipLimit > 1 {
		return &ConfigError{Stage: "equalize", Reason: "clip limit must be in (0, 1]"}
	}
	if c.EventSeconds <= 0 {
		return &ConfigError{Stage: "labeler", Reason: "event duration must be positive"}
	}
	if c.StartSeconds < 0 {
		return &ConfigError{Stage: "range", Reason: "start must not be negative"}
	}
	if c.EndSeconds != 0 && c.EndSeconds <= c.StartSeconds {
		return &ConfigError{Stage: "range", Reason: "end must be after start"}
	}
	return nil
}
