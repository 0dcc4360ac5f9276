// Package emit renders labeled spectrograms to grayscale PNG
// artifacts partitioned into one directory per label.
package emit

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/apnealab/somnograph/logging"
	"github.com/apnealab/somnograph/pipeline"
)

// Emitter writes one PNG per window under baseDir/<label>/.
// Filenames encode the window index and the label, so an artifact is
// self-describing even when moved out of its directory.
type Emitter struct {
	baseDir string
	logger  logging.Logger
}

// NewEmitter creates an emitter rooted at baseDir
func NewEmitter(baseDir string) *Emitter {
	return &Emitter{
		baseDir: baseDir,
		logger:  logging.WithFields(logging.Fields{"component": "emitter"}),
	}
}

// Emit renders one result and returns the path it was written to
func (e *Emitter) Emit(result *pipeline.Result) (string, error) {
	dir := filepath.Join(e.baseDir, string(result.Label))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating label directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("window_%04d_%s.png", result.Window.Index, result.Label))

	img := render(result.Magnitude)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating artifact: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding artifact: %w", err)
	}

	return path, nil
}

// EmitAll renders every result. A single failed artifact aborts: disk
// problems are not per-window conditions.
func (e *Emitter) EmitAll(results []pipeline.Result) error {
	for i := range results {
		path, err := e.Emit(&results[i])
		if err != nil {
			return fmt.Errorf("window %d: %w", results[i].Window.Index, err)
		}

		e.logger.Debug("artifact written", logging.Fields{
			"path":  path,
			"label": results[i].Label,
		})
	}

	return nil
}

// render maps the time x frequency magnitude matrix onto a grayscale
// image with time on the horizontal axis and frequency on the
// vertical, low frequencies at the bottom.
func render(magnitude [][]float64) *image.Gray {
	timeFrames := len(magnitude)
	freqBins := 0
	if timeFrames > 0 {
		freqBins = len(magnitude[0])
	}

	img := image.NewGray(image.Rect(0, 0, timeFrames, freqBins))
	for t := 0; t < timeFrames; t++ {
		for f := 0; f < freqBins; f++ {
			value := magnitude[t][f]
			if value < 0 {
				value = 0
			}
			if value > 1 {
				value = 1
			}
			img.SetGray(t, freqBins-1-f, color.Gray{Y: uint8(value * 255)})
		}
	}

	return img
}
