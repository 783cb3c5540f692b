package stream

import (
	"fmt"
	"math"

	"github.com/BTBurke/seqtest/pkg/series"
)

// FiniteSummaries extends Summaries with finite-population bookkeeping.
// Given a fixed population size and its reference mean, it tracks the sum and
// mean of the remaining, not-yet-sampled elements after every observation.
// The out-of-sample histories carry one leading entry for the full population
// before any sampling has occurred.
type FiniteSummaries struct {
	Summaries
	popSize  int
	popMean  float64
	oosSums  *series.History
	oosMeans *series.History
}

// NewFiniteSummaries returns summaries for sampling without replacement from
// a population of popSize elements whose overall mean popMean is treated as
// known
func NewFiniteSummaries(popSize int, popMean float64) (*FiniteSummaries, error) {
	if popSize <= 0 {
		return nil, fmt.Errorf("population size must be positive, got %d", popSize)
	}
	f := &FiniteSummaries{
		Summaries: *NewSummaries(),
		popSize:   popSize,
		popMean:   popMean,
		oosSums:   series.NewHistory(),
		oosMeans:  series.NewHistory(),
	}
	f.oosSums.Append(popMean * float64(popSize))
	f.oosMeans.Append(popMean)
	return f, nil
}

// Add appends all values to the stream, first checking that the batch does
// not exceed the remaining population.  On overflow the whole batch is
// rejected before any mutation.  Exceeding the population size would make the
// finite-population correction meaningless, so this is a hard precondition
// failure rather than a truncation.
func (f *FiniteSummaries) Add(values []float64) error {
	if len(values) > f.RemainingCount() {
		return &SampleOverflow{
			Requested: len(values),
			Taken:     f.Count(),
			PopSize:   f.popSize,
		}
	}
	if err := f.Summaries.Add(values); err != nil {
		return err
	}
	// recompute the out-of-sample sum and mean for each newly added point
	total := f.oosSums.At(0)
	hist := f.HistSums()
	for i := len(hist) - len(values); i < len(hist); i++ {
		oosSum := total - hist[i]
		f.oosSums.Append(oosSum)
		remaining := f.popSize - (i + 1)
		if remaining == 0 {
			// the final out-of-sample mean is conventionally undefined
			f.oosMeans.Append(math.NaN())
			continue
		}
		f.oosMeans.Append(oosSum / float64(remaining))
	}
	return nil
}

// PopSize returns the fixed size of the full population
func (f *FiniteSummaries) PopSize() int {
	return f.popSize
}

// PopMean returns the fixed reference mean of the full population
func (f *FiniteSummaries) PopMean() float64 {
	return f.popMean
}

// RemainingCount returns the number of population elements not yet sampled
func (f *FiniteSummaries) RemainingCount() int {
	return f.popSize - f.Count()
}

// OOSSum returns the current sum of the remaining population elements
func (f *FiniteSummaries) OOSSum() float64 {
	return f.oosSums.Current()
}

// PrevOOSSum returns the out-of-sample sum at the second-to-last time point,
// NaN if undefined
func (f *FiniteSummaries) PrevOOSSum() float64 {
	return f.oosSums.Prev()
}

// OOSMean returns the current mean of the remaining population elements.  It
// is NaN once the population is exhausted; the last defined value remains
// retrievable through PrevOOSMean or HistOOSMeans.
func (f *FiniteSummaries) OOSMean() float64 {
	return f.oosMeans.Current()
}

// PrevOOSMean returns the out-of-sample mean at the second-to-last time
// point, NaN if undefined
func (f *FiniteSummaries) PrevOOSMean() float64 {
	return f.oosMeans.Prev()
}

// HistOOSSums returns the history of out-of-sample sums, including the
// leading full-population entry
func (f *FiniteSummaries) HistOOSSums() []float64 {
	return f.oosSums.Values()
}

// HistOOSMeans returns the history of out-of-sample means, including the
// leading full-population entry
func (f *FiniteSummaries) HistOOSMeans() []float64 {
	return f.oosMeans.Values()
}
