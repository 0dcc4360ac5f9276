// Package pipeline implements the signal-conditioning and
// spectrogram-segmentation chain for single-channel ECG recordings:
// denoise, normalize, slice into fixed windows, compute a
// band-truncated Hann STFT per window, and label each window by
// overlap against apnea event intervals.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/apnealab/somnograph/annot"
	"github.com/apnealab/somnograph/logging"
)

// Result is one labeled spectrogram window, ordered by window index
type Result struct {
	Window    Window      `json:"window"`
	FreqAxis  []float64   `json:"freq_axis"`
	Magnitude [][]float64 `json:"magnitude"`
	Label     annot.Label `json:"label"`
}

// Report aggregates the run's diagnostic counters
type Report struct {
	NoiseThreshold   float64              `json:"noise_threshold"`
	Audits           []StageAudit         `json:"audits"`
	HighpassApplied  bool                 `json:"highpass_applied"`
	AnnotationCounts map[annot.Symbol]int `json:"annotation_counts"`
	WindowsEmitted   int                  `json:"windows_emitted"`
	WindowsSkipped   []int                `json:"windows_skipped,omitempty"`
}

// Pipeline runs the full chain for one record
type Pipeline struct {
	cfg    *Config
	logger logging.Logger
}

// New creates a pipeline after validating the signal-independent
// parts of the configuration.
func New(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:    cfg,
		logger: logging.WithFields(logging.Fields{"component": "pipeline"}),
	}, nil
}

// Run processes one record end to end.
//
// The signal and annotations are first cut to the configured analysis
// range through the same interval, then the denoising chain, the
// normalizer, and the per-window spectrogram and labeling stages run
// in order. Windows are processed on a worker pool: once the
// normalized signal exists every window only reads shared immutable
// data and writes its own result slot, so no locking is needed.
//
// Structural errors (bad parameters, zero-variance signal) abort the
// run. A degenerate window is skipped, reported, and does not stop the
// batch. Cancellation via ctx stops dispatching further windows.
func (p *Pipeline) Run(ctx context.Context, signal []float64, sampleRate int, annotations []annot.Annotation) ([]Result, *Report, error) {
	if sampleRate <= 0 {
		return nil, nil, &ConfigError{Stage: "input", Reason: "sample rate must be positive"}
	}

	sliced, origin, err := p.sliceAnalysisRange(signal, sampleRate)
	if err != nil {
		return nil, nil, err
	}

	windowSamples := int(p.cfg.WindowSeconds * float64(sampleRate))
	if p.cfg.SegmentLength > windowSamples {
		return nil, nil, &ConfigError{
			Stage:  "stft",
			Reason: fmt.Sprintf("segment length (%d) exceeds window size (%d samples)", p.cfg.SegmentLength, windowSamples),
		}
	}

	rangeEnd := origin + float64(len(sliced))/float64(sampleRate)
	inRange := annot.FilterRange(annotations, origin, rangeEnd)

	report := &Report{
		AnnotationCounts: annot.CountBySymbol(inRange),
	}

	denoised, err := NewDenoiser(p.cfg, p.logger).Process(sliced, sampleRate)
	if err != nil {
		return nil, nil, err
	}
	report.NoiseThreshold = denoised.Threshold
	report.Audits = denoised.Audits
	report.HighpassApplied = denoised.HighpassApplied

	normalized, err := Normalize(denoised.Signal)
	if err != nil {
		return nil, nil, err
	}

	windows := GenerateWindows(len(normalized), sampleRate, p.cfg.WindowSeconds, p.cfg.StepSeconds, origin)
	if len(windows) == 0 {
		p.logger.Warn("analysis range shorter than one window, nothing to emit", logging.Fields{
			"samples":        len(normalized),
			"window_seconds": p.cfg.WindowSeconds,
		})
		return nil, report, nil
	}

	builder, err := NewSpectrogramBuilder(p.cfg)
	if err != nil {
		return nil, nil, err
	}

	labeler := annot.NewLabeler(inRange, p.cfg.EventSeconds)

	results, skipped, err := p.processWindows(ctx, normalized, sampleRate, windows, builder, labeler)
	if err != nil {
		return nil, nil, err
	}
	report.WindowsEmitted = len(results)
	report.WindowsSkipped = skipped

	if err := ctx.Err(); err != nil {
		return results, report, fmt.Errorf("run canceled: %w", err)
	}

	p.logger.Info("record processed", logging.Fields{
		"windows_emitted": report.WindowsEmitted,
		"windows_skipped": len(report.WindowsSkipped),
		"highpass":        report.HighpassApplied,
	})

	return results, report, nil
}

// processWindows fans the windows out over a worker pool and collects
// the results back in index order. Only degenerate windows are
// recoverable; any other window error is structural and aborts the
// run.
func (p *Pipeline) processWindows(ctx context.Context, normalized []float64, sampleRate int, windows []Window, builder *SpectrogramBuilder, labeler *annot.Labeler) ([]Result, []int, error) {
	slots := make([]*Result, len(windows))
	windowErrs := make([]error, len(windows))

	numWorkers := p.cfg.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, len(windows))

	jobs := make(chan int, len(windows))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				w := windows[idx]
				start, end := sampleBounds(w, sampleRate, p.cfg.StepSeconds, p.cfg.WindowSeconds)

				spec, err := builder.Build(normalized[start:end], sampleRate, w)
				if err != nil {
					windowErrs[idx] = err
					continue
				}

				slots[idx] = &Result{
					Window:    w,
					FreqAxis:  spec.FreqAxis,
					Magnitude: spec.Magnitude,
					Label:     labeler.Label(w.TStart, w.TEnd),
				}
			}
		}()
	}

	for idx := range windows {
		if ctx.Err() != nil {
			break
		}
		jobs <- idx
	}
	close(jobs)

	wg.Wait()

	results := make([]Result, 0, len(windows))
	var skipped []int
	for idx := range windows {
		if err := windowErrs[idx]; err != nil {
			var degenerate *DegenerateWindowError
			if !errors.As(err, &degenerate) {
				return nil, nil, fmt.Errorf("window %d: %w", idx, err)
			}

			skipped = append(skipped, idx)
			p.logger.Warn("skipping degenerate window", logging.Fields{"window": idx})
			continue
		}
		if slots[idx] != nil {
			results = append(results, *slots[idx])
		}
	}

	return results, skipped, nil
}

// sliceAnalysisRange cuts the signal to [StartSeconds, EndSeconds) and
// returns the slice together with its origin in record time. The same
// interval is applied to the annotations so the two tracks stay
// synchronized.
func (p *Pipeline) sliceAnalysisRange(signal []float64, sampleRate int) ([]float64, float64, error) {
	startSample := int(p.cfg.StartSeconds * float64(sampleRate))
	endSample := len(signal)
	if p.cfg.EndSeconds > 0 {
		endSample = int(p.cfg.EndSeconds * float64(sampleRate))
	}

	if startSample >= len(signal) {
		return nil, 0, &ConfigError{Stage: "range", Reason: "analysis start is past the end of the record"}
	}
	if endSample > len(signal) {
		endSample = len(signal)
	}
	if endSample <= startSample {
		return nil, 0, &ConfigError{Stage: "range", Reason: "analysis range is empty"}
	}

	return signal[startSample:endSample], float64(startSample) / float64(sampleRate), nil
}
