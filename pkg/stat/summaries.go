package stat

import "github.com/BTBurke/seqtest/pkg/stream"

// Summaries is the read surface of the streaming statistics shared between a
// sequential test and its estimator.  The test owns the underlying summaries
// and is their single writer; the estimator only ever reads, and reads only
// the previous-step values so that no observation is used to estimate its own
// weight.
type Summaries interface {
	Count() int
	Sum() float64
	PrevSum() float64
	Mean() float64
	PrevMean() float64
	Var() float64
	PrevVar() float64
}

// FiniteSummaries extends the read surface with the out-of-sample
// bookkeeping available when the population size is known in advance
type FiniteSummaries interface {
	Summaries
	PopSize() int
	PopMean() float64
	RemainingCount() int
	OOSMean() float64
}

// recorder is the full read/write surface a test requires of its summaries
type recorder interface {
	Summaries
	Add(values []float64) error
	Observations() []float64
}

var _ recorder = &stream.Summaries{}
var _ recorder = &stream.FiniteSummaries{}
var _ FiniteSummaries = &stream.FiniteSummaries{}
