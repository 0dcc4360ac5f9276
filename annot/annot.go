// Package annot models the sparse event annotation track that rides
// alongside a physiological recording: point events with a timestamp
// and a category symbol, expanded into fixed-duration intervals for
// overlap testing against analysis windows.
package annot

// Symbol is an annotation category code from the recording's alphabet.
// Symbols outside the known set pass through counting but never
// produce an apnea label.
type Symbol string

const (
	// SymbolApnea marks a minute annotated as disordered breathing
	SymbolApnea Symbol = "A"
	// SymbolNormal marks a minute annotated as normal breathing
	SymbolNormal Symbol = "N"
)

// Label is the categorical outcome attached to one analysis window
type Label string

const (
	LabelApnea  Label = "apnea"
	LabelNormal Label = "normal"
)

// Annotation is a point event on the recording timeline
type Annotation struct {
	Time   float64 `json:"time"` // seconds from record start
	Symbol Symbol  `json:"symbol"`
}

// FilterRange returns the annotations whose timestamp lies in
// [start, end). The same interval must be used to slice the signal,
// otherwise windows and annotations desynchronize.
func FilterRange(annotations []Annotation, start, end float64) []Annotation {
	filtered := make([]Annotation, 0, len(annotations))
	for _, a := range annotations {
		if a.Time >= start && a.Time < end {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// CountBySymbol tallies annotations per category
func CountBySymbol(annotations []Annotation) map[Symbol]int {
	counts := make(map[Symbol]int)
	for _, a := range annotations {
		counts[a.Symbol]++
	}
	return counts
}

// Interval is a half-open event interval [Start, End) in seconds,
// derived from a point annotation by extending it over the
// annotation's sampling granularity.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Overlaps reports whether the interval intersects [start, end).
// Strict inequalities: an interval that exactly abuts the range does
// not overlap it.
func (iv Interval) Overlaps(start, end float64) bool {
	return iv.Start < end && iv.End > start
}

// Labeler assigns a label to analysis windows by interval overlap.
//
// Only apnea intervals carry evidence: a window overlapping any apnea
// interval at all is labeled apnea, no matter how small the overlap
// fraction. Normal is the fallback, not a competing vote. Switching to
// majority-overlap labeling would silently change the training set, so
// the any-overlap policy is deliberate and fixed.
type Labeler struct {
	apnea []Interval
}

// NewLabeler expands every apnea annotation into a
// [time, time+eventDuration) interval. The cost is paid once and
// amortized across all windows.
func NewLabeler(annotations []Annotation, eventDuration float64) *Labeler {
	l := &Labeler{}
	for _, a := range annotations {
		if a.Symbol == SymbolApnea {
			l.apnea = append(l.apnea, Interval{Start: a.Time, End: a.Time + eventDuration})
		}
	}
	return l
}

// Label returns the label for the window [start, end), short-circuiting
// on the first overlapping apnea interval.
func (l *Labeler) Label(start, end float64) Label {
	for _, iv := range l.apnea {
		if iv.Overlaps(start, end) {
			return LabelApnea
		}
	}
	return LabelNormal
}

// ApneaIntervals returns a copy of the expanded apnea intervals
func (l *Labeler) ApneaIntervals() []Interval {
	intervals := make([]Interval, len(l.apnea))
	copy(intervals, l.apnea)
	return intervals
}
