// Package stream implements incremental sufficient statistics for an ordered
// stream of observations: count, cumulative sum, running mean, and running
// population variance via Welford's algorithm.  A full history of each
// statistic is retained, one entry per observation, so that the value of any
// statistic strictly before the latest observation remains exactly
// recoverable.  Sequential tests rely on those previous-step lookups to
// weight an observation without using the observation itself.
package stream

import (
	"github.com/BTBurke/seqtest/pkg/series"
)

// Summaries calculates running summaries of a stream of observations.  All
// updates are O(1) per observation and numerically stable regardless of
// stream length.
type Summaries struct {
	data  []float64
	count int
	sums  *series.History
	means *series.History
	vars  *series.History
}

// NewSummaries returns an empty Summaries ready to accept observations
func NewSummaries() *Summaries {
	return &Summaries{
		sums:  series.NewHistory(series.WithEmptyValue(0)),
		means: series.NewHistory(),
		vars:  series.NewHistory(),
	}
}

// Add appends all values to the stream in order and updates the count, sum,
// mean, and population variance incrementally.  Each value commits a new
// history entry before the next is processed.
func (s *Summaries) Add(values []float64) error {
	for _, x := range values {
		s.data = append(s.data, x)
		s.count++
		if s.count == 1 {
			s.sums.Append(x)
			s.means.Append(x)
			s.vars.Append(0)
			continue
		}
		sum := s.sums.Current() + x
		s.sums.Append(sum)
		prevMean := s.means.Current()
		mean := sum / float64(s.count)
		s.means.Append(mean)
		// Welford's update for the population variance
		prevVar := s.vars.Current()
		s.vars.Append(prevVar + ((x-prevMean)*(x-mean)-prevVar)/float64(s.count))
	}
	return nil
}

// Count returns the number of observations absorbed so far
func (s *Summaries) Count() int {
	return s.count
}

// Sum returns the current cumulative sum, 0 for an empty stream
func (s *Summaries) Sum() float64 {
	return s.sums.Current()
}

// PrevSum returns the cumulative sum at the second-to-last observation, 0 if
// undefined
func (s *Summaries) PrevSum() float64 {
	return s.sums.Prev()
}

// Mean returns the current running mean, NaN for an empty stream
func (s *Summaries) Mean() float64 {
	return s.means.Current()
}

// PrevMean returns the running mean at the second-to-last observation, NaN if
// undefined
func (s *Summaries) PrevMean() float64 {
	return s.means.Prev()
}

// Var returns the current running population variance, NaN for an empty
// stream
func (s *Summaries) Var() float64 {
	return s.vars.Current()
}

// PrevVar returns the population variance at the second-to-last observation,
// NaN if undefined
func (s *Summaries) PrevVar() float64 {
	return s.vars.Prev()
}

// HistSums returns the history of cumulative sums, one entry per observation
func (s *Summaries) HistSums() []float64 {
	return s.sums.Values()
}

// HistMeans returns the history of running means, one entry per observation
func (s *Summaries) HistMeans() []float64 {
	return s.means.Values()
}

// HistVars returns the history of running population variances, one entry
// per observation
func (s *Summaries) HistVars() []float64 {
	return s.vars.Values()
}

// Observations returns a copy of the raw observation stream in order
func (s *Summaries) Observations() []float64 {
	out := make([]float64, len(s.data))
	copy(out, s.data)
	return out
}
