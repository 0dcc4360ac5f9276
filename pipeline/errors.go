package pipeline

import (
	"errors"
	"fmt"
)

// ErrDegenerateSignal reports a zero-variance signal at normalization.
// Nothing downstream is meaningful, so the run aborts.
var ErrDegenerateSignal = errors.New("signal has zero variance")

// ConfigError reports parameters that are invalid on their own or
// incompatible with the input signal. It aborts the run before any
// window is processed; silently clamping would change output semantics
// without a trace.
type ConfigError struct {
	Stage  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DegenerateWindowError reports a single window whose truncated
// magnitude matrix is constant, so min-max normalization has no range
// to work with. It is recoverable: the window is skipped and reported,
// the batch continues.
type DegenerateWindowError struct {
	Index int
}

func (e *DegenerateWindowError) Error() string {
	return fmt.Sprintf("window %d: magnitude matrix has zero range", e.Index)
}
