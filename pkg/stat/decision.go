// Package stat implements anytime-valid sequential hypothesis tests for the
// mean of a bounded, non-negative random variable, including the ALPHA test
// martingale and Wald's sequential probability ratio test.
package stat

import (
	"math"

	"github.com/BTBurke/seqtest/pkg/fsm"
)

const (
	// These represent decisions of a sequential hypothesis test.  A test
	// starts in the continue state and may reach a terminal accept or reject
	// decision depending on the evidence accumulated from the stream.
	Continue = fsm.State("continue")
	Accept   = fsm.State("accept")
	Reject   = fsm.State("reject")
)

// SeqTest defines methods available on any sequential hypothesis test.  A
// test consumes ordered batches of observations through Update, which returns
// the current decision.  Once the decision is terminal, further updates are a
// hard error.
type SeqTest interface {
	Update(x []float64) (fsm.State, error)
	Decision() fsm.State
	Stopped() bool
	Summary() Summary
}

// Summary is a descriptive record of the current state of a test
type Summary struct {
	Test         string
	Null         string
	Alternative  string
	Alpha        float64
	P            float64
	Decision     fsm.State
	Observations int
	// PopSize is +Inf when sampling with replacement from an unbounded stream
	PopSize float64
}

// eps is the double-precision machine epsilon
var eps = math.Nextafter(1, 2) - 1

// isClose reports whether a is within the absolute and relative tolerance of b
func isClose(a, b, atol, rtol float64) bool {
	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}
