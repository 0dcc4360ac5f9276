package pipeline

// Window is a half-open time range [TStart, TEnd) of fixed duration
// over the analysis interval, identified by its generation index.
type Window struct {
	Index  int     `json:"index"`
	TStart float64 `json:"t_start"` // seconds from record start
	TEnd   float64 `json:"t_end"`
}

// GenerateWindows tiles the analysis slice with fixed-duration,
// fixed-stride windows. Only positions where a full window of samples
// is available produce a window; no partial trailing window is
// emitted. Window times are absolute record times, offset by the
// analysis origin, so they compare directly against annotation
// timestamps.
func GenerateWindows(numSamples, sampleRate int, windowSeconds, stepSeconds, originSeconds float64) []Window {
	windowSamples := int(windowSeconds * float64(sampleRate))
	stepSamples := int(stepSeconds * float64(sampleRate))

	if windowSamples <= 0 || stepSamples <= 0 || numSamples < windowSamples {
		return nil
	}

	count := (numSamples-windowSamples)/stepSamples + 1
	windows := make([]Window, count)
	for i := range windows {
		start := originSeconds + float64(i)*stepSeconds
		windows[i] = Window{
			Index:  i,
			TStart: start,
			TEnd:   start + windowSeconds,
		}
	}

	return windows
}

// sampleBounds returns the window's sample range within the analysis
// slice
func sampleBounds(w Window, sampleRate int, stepSeconds, windowSeconds float64) (start, end int) {
	start = w.Index * int(stepSeconds*float64(sampleRate))
	end = start + int(windowSeconds*float64(sampleRate))
	return start, end
}
