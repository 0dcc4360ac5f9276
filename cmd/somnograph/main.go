// Command somnograph converts a single-channel ECG recording plus its
// apnea annotation track into labeled spectrogram images.
//
// The signal comes from an EDF file, the annotations from a two-column
// CSV of (seconds, symbol). Output is one grayscale PNG per analysis
// window, partitioned into per-label directories.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/OpenPSG/edf"
	"gopkg.in/yaml.v3"

	"github.com/apnealab/somnograph/annot"
	"github.com/apnealab/somnograph/emit"
	"github.com/apnealab/somnograph/logging"
	"github.com/apnealab/somnograph/pipeline"
)

func main() {
	var (
		edfPath     = flag.String("edf", "", "path to the EDF recording (required)")
		signalIndex = flag.Int("signal", 0, "index of the ECG signal within the EDF file")
		sampleRate  = flag.Int("rate", 100, "sampling rate of the selected signal in Hz")
		annotPath   = flag.String("annotations", "", "path to the annotation CSV (seconds,symbol) (required)")
		outDir      = flag.String("out", "spectrograms", "output directory for labeled artifacts")
		configPath  = flag.String("config", "", "optional YAML file overriding pipeline defaults")
		startSec    = flag.Float64("start", 0, "analysis range start in seconds")
		endSec      = flag.Float64("end", 0, "analysis range end in seconds, 0 means full record")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	logger := logging.GetGlobalLogger()
	if *verbose {
		logger.SetLevel(logging.DebugLevel)
	}

	if *edfPath == "" || *annotPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal(err, "invalid configuration")
	}
	if *startSec > 0 {
		cfg.StartSeconds = *startSec
	}
	if *endSec > 0 {
		cfg.EndSeconds = *endSec
	}

	samples, err := readSignal(*edfPath, *signalIndex)
	if err != nil {
		logger.Fatal(err, "reading EDF signal", logging.Fields{"path": *edfPath})
	}

	annotations, err := readAnnotations(*annotPath)
	if err != nil {
		logger.Fatal(err, "reading annotations", logging.Fields{"path": *annotPath})
	}

	logger.Info("record loaded", logging.Fields{
		"samples":     len(samples),
		"sample_rate": *sampleRate,
		"annotations": len(annotations),
	})

	p, err := pipeline.New(cfg)
	if err != nil {
		logger.Fatal(err, "invalid pipeline configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, report, err := p.Run(ctx, samples, *sampleRate, annotations)
	if err != nil {
		logger.Fatal(err, "pipeline failed")
	}

	if err := emit.NewEmitter(*outDir).EmitAll(results); err != nil {
		logger.Fatal(err, "emitting artifacts")
	}

	printReport(report, *outDir)
}

// loadConfig starts from defaults and overlays an optional YAML file
func loadConfig(path string) (*pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// readSignal streams one signal of the EDF file into memory
func readSignal(path string, signalIndex int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := edf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("parsing EDF header: %w", err)
	}

	signalReader, err := reader.Signal(signalIndex)
	if err != nil {
		return nil, err
	}

	var samples []float64
	buf := make([]float64, 4096)
	for {
		n, err := signalReader.Read(buf)
		samples = append(samples, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading signal data: %w", err)
		}
	}

	return samples, nil
}

// readAnnotations parses a two-column CSV of (seconds, symbol).
// A non-numeric first row is treated as a header and skipped.
func readAnnotations(path string) ([]annot.Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing annotation CSV: %w", err)
	}

	annotations := make([]annot.Annotation, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected (seconds, symbol), got %d columns", i+1, len(record))
		}

		seconds, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("line %d: bad timestamp %q", i+1, record[0])
		}

		annotations = append(annotations, annot.Annotation{
			Time:   seconds,
			Symbol: annot.Symbol(strings.TrimSpace(record[1])),
		})
	}

	return annotations, nil
}

func printReport(report *pipeline.Report, outDir string) {
	fields := logging.Fields{
		"noise_threshold":  report.NoiseThreshold,
		"highpass_applied": report.HighpassApplied,
		"windows_emitted":  report.WindowsEmitted,
		"windows_skipped":  len(report.WindowsSkipped),
		"output_dir":       outDir,
	}
	for _, audit := range report.Audits {
		fields["noisy_"+audit.Stage] = audit.NoisySamples
	}
	for symbol, count := range report.AnnotationCounts {
		fields["annotations_"+string(symbol)] = count
	}

	logging.Info("run complete", fields)
}
