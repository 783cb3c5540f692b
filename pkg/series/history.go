// Package series implements append-only recorders for the per-observation
// histories kept by sequential tests.  Unlike a fixed-capacity ring buffer,
// a History retains every observation so that statistics "as of" any earlier
// point in the stream remain exactly recoverable.
package series

import "math"

// History is an append-only series of float64 values.  The zero value is not
// usable; create one with NewHistory.
type History struct {
	values []float64
	empty  float64
}

type HistoryOption func(h *History)

// NewHistory creates a new empty history.  Current and Prev return NaN when
// the requested entry does not yet exist unless overridden with WithEmptyValue.
func NewHistory(opts ...HistoryOption) *History {
	h := &History{empty: math.NaN()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// WithEmptyValue sets the value returned by Current and Prev before enough
// observations have been recorded, e.g. 0 for cumulative sums
func WithEmptyValue(v float64) HistoryOption {
	return func(h *History) {
		h.empty = v
	}
}

// Append records a new value at the end of the history
func (h *History) Append(v float64) {
	h.values = append(h.values, v)
}

// Count returns the number of values recorded
func (h *History) Count() int {
	return len(h.values)
}

// Current returns the most recently recorded value
func (h *History) Current() float64 {
	if len(h.values) == 0 {
		return h.empty
	}
	return h.values[len(h.values)-1]
}

// Prev returns the second-to-last recorded value.  Estimators use Prev to
// weight an observation using only information available strictly before it
// was observed.
func (h *History) Prev() float64 {
	if len(h.values) < 2 {
		return h.empty
	}
	return h.values[len(h.values)-2]
}

// At returns the value recorded at index i (0-based)
func (h *History) At(i int) float64 {
	if i < 0 || i >= len(h.values) {
		return h.empty
	}
	return h.values[i]
}

// Values returns a copy of all recorded values in order from oldest to most
// recent
func (h *History) Values() []float64 {
	out := make([]float64, len(h.values))
	copy(out, h.values)
	return out
}
