package stat

import (
	"fmt"
	"math"

	"github.com/BTBurke/seqtest/pkg/fsm"
	"github.com/BTBurke/seqtest/pkg/series"
	"github.com/BTBurke/seqtest/pkg/stream"
)

// AlphaMart is the ALPHA test martingale: a betting-style sequential test of
// the hypothesis that the mean of a bounded, non-negative random variable in
// [0, u] is at most t.  Each observation is converted into an e-value through
// a bet eta proposed by the configured estimator; the running product of
// e-values is a martingale under the null, and the running minimum of its
// reciprocal is a p-value that stays valid no matter when sampling stops.
//
// The test is one-sided: only evidence against the null can end it, so the
// decision moves from Continue to Reject and never reaches Accept.
type AlphaMart struct {
	alpha   float64
	u       float64
	t       float64
	popSize int
	atol    float64
	rtol    float64

	estim Estimator
	bet   Bet
	src   etaSource

	summ    recorder
	fp      FiniteSummaries
	machine *fsm.Machine

	etaHist  *series.History
	eHist    *series.History
	eProcess *series.History
	pHist    *series.History
}

var _ SeqTest = &AlphaMart{}

// AlphaMartOption applies options to construct a custom test
type AlphaMartOption func(a *AlphaMart) error

// NewAlphaMart returns a new ALPHA martingale test.  Defaults: significance
// level 0.05, observations bounded by u = 1, hypothesized mean threshold
// t = 0.5, sampling with replacement, and a ShrinkTrunc estimator with
// standard parameters.
func NewAlphaMart(opts ...AlphaMartOption) (*AlphaMart, error) {
	a := &AlphaMart{
		alpha: 0.05,
		u:     1,
		t:     0.5,
		atol:  eps,
		rtol:  1e-6,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("failed to create AlphaMart: %v", err)
		}
	}
	if a.alpha <= 0 || a.alpha >= 1 {
		return nil, fmt.Errorf("significance level must be in (0,1), got %f", a.alpha)
	}
	if a.t <= 0 || a.t >= a.u {
		return nil, fmt.Errorf("hypothesized mean must satisfy 0 < t < u, got t=%f u=%f", a.t, a.u)
	}

	switch {
	case a.popSize > 0:
		fp, err := stream.NewFiniteSummaries(a.popSize, a.t)
		if err != nil {
			return nil, fmt.Errorf("failed to create AlphaMart: %v", err)
		}
		a.summ = fp
		a.fp = fp
	default:
		a.summ = stream.NewSummaries()
	}

	switch {
	case a.estim != nil:
		a.src = estimatorEta{a.estim}
	case a.bet != nil:
		a.src = betEta{a.bet, a.u}
	default:
		a.src = estimatorEta{NewShrinkTrunc(a.u, a.t)}
	}

	machine, err := fsm.NewMachine(Continue, fsm.WithTransitions(
		fsm.T(Continue, Reject),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create decision FSM: %v", err)
	}
	a.machine = machine

	a.etaHist = series.NewHistory()
	a.eHist = series.NewHistory()
	a.eProcess = series.NewHistory()
	a.pHist = series.NewHistory()
	return a, nil
}

// WithAlpha sets the significance threshold for rejection
func WithAlpha(alpha float64) AlphaMartOption {
	return func(a *AlphaMart) error {
		a.alpha = alpha
		return nil
	}
}

// WithPopulation declares sampling without replacement from a finite
// population of n elements.  The hypothesized mean t is used as the reference
// mean of the full population.
func WithPopulation(n int) AlphaMartOption {
	return func(a *AlphaMart) error {
		if n <= 0 {
			return fmt.Errorf("population size must be positive, got %d", n)
		}
		a.popSize = n
		return nil
	}
}

// WithBound sets the known upper bound u on the observations
func WithBound(u float64) AlphaMartOption {
	return func(a *AlphaMart) error {
		if u <= 0 {
			return fmt.Errorf("upper bound must be positive, got %f", u)
		}
		a.u = u
		return nil
	}
}

// WithThreshold sets the hypothesized mean threshold t under the null
func WithThreshold(t float64) AlphaMartOption {
	return func(a *AlphaMart) error {
		a.t = t
		return nil
	}
}

// WithEstimator sets the estimator that proposes eta at each step
func WithEstimator(e Estimator) AlphaMartOption {
	return func(a *AlphaMart) error {
		if a.bet != nil {
			return fmt.Errorf("cannot configure both an estimator and a bet")
		}
		a.estim = e
		return nil
	}
}

// WithBet sets a betting strategy whose wager is converted into eta through
// BetToEstimate
func WithBet(b Bet) AlphaMartOption {
	return func(a *AlphaMart) error {
		if a.estim != nil {
			return fmt.Errorf("cannot configure both an estimator and a bet")
		}
		a.bet = b
		return nil
	}
}

// WithTolerances sets the absolute and relative tolerances used to detect a
// null mean estimate at the boundary of [0, u]
func WithTolerances(atol, rtol float64) AlphaMartOption {
	return func(a *AlphaMart) error {
		a.atol = atol
		a.rtol = rtol
		return nil
	}
}

// Update consumes a batch of observations in order and returns the resulting
// decision.  For a finite population the whole batch is rejected before any
// mutation if it exceeds the remaining population.  Calling Update after the
// test has reached a terminal decision is a hard error.
func (a *AlphaMart) Update(x []float64) (fsm.State, error) {
	if a.Stopped() {
		return a.Decision(), fmt.Errorf("cannot update: test already reached terminal decision %s", a.Decision())
	}
	if a.fp != nil && len(x) > a.fp.RemainingCount() {
		return a.Decision(), &stream.SampleOverflow{
			Requested: len(x),
			Taken:     a.summ.Count(),
			PopSize:   a.fp.PopSize(),
		}
	}
	for _, xi := range x {
		if err := a.summ.Add([]float64{xi}); err != nil {
			return a.Decision(), err
		}
		m := a.t
		if a.fp != nil {
			m = a.fp.OOSMean()
		}
		eta := a.src.eta(a.summ, m)
		a.etaHist.Append(eta)
		a.eHist.Append(a.evalue(xi, eta, m))
		if a.eProcess.Count() == 0 {
			a.eProcess.Append(a.eHist.Current())
		} else {
			a.eProcess.Append(a.eProcess.Current() * a.eHist.Current())
		}
		// p is the smallest 1/e seen so far, so the reported sequence is
		// monotone non-increasing and valid at any stopping time
		p := 1.0
		if prev := a.Pval(); !math.IsNaN(prev) {
			p = math.Min(p, prev)
		}
		if inv := 1 / a.eProcess.Current(); !math.IsNaN(inv) {
			p = math.Min(p, inv)
		}
		a.pHist.Append(p)
	}
	if a.pHist.Current() < a.alpha {
		if err := a.machine.Transition(Reject); err != nil {
			return a.Decision(), err
		}
	}
	return a.Decision(), nil
}

// evalue computes the multiplicative contribution of a single observation to
// the e-process
func (a *AlphaMart) evalue(xi, eta, m float64) float64 {
	switch {
	case m > a.u:
		// true mean certainly less than hypothesized
		return 0
	case m < 0:
		// true mean certainly greater than hypothesized
		return math.Inf(1)
	case isClose(0, m, a.atol, a.rtol) || isClose(a.u, m, a.atol, a.rtol):
		// neutral near the boundary to avoid division blow-up
		return 1
	default:
		return (xi*eta/m + (a.u-xi)*(a.u-eta)/(a.u-m)) / a.u
	}
}

// Pval returns the current anytime-valid p-value, NaN before any observation
func (a *AlphaMart) Pval() float64 {
	return a.pHist.Current()
}

// Decision returns the current testing decision
func (a *AlphaMart) Decision() fsm.State {
	return a.machine.State()
}

// Stopped returns true once the test has reached a terminal decision
func (a *AlphaMart) Stopped() bool {
	return a.machine.Terminal()
}

// EtaHistory returns the history of eta estimates, one entry per observation
func (a *AlphaMart) EtaHistory() []float64 {
	return a.etaHist.Values()
}

// EHist returns the history of per-observation e-values
func (a *AlphaMart) EHist() []float64 {
	return a.eHist.Values()
}

// EProcess returns the running product of e-values
func (a *AlphaMart) EProcess() []float64 {
	return a.eProcess.Values()
}

// PHistory returns the history of anytime-valid p-values
func (a *AlphaMart) PHistory() []float64 {
	return a.pHist.Values()
}

// Observations returns a copy of the observations consumed so far
func (a *AlphaMart) Observations() []float64 {
	return a.summ.Observations()
}

// Summary returns a descriptive record of the current state of the test
func (a *AlphaMart) Summary() Summary {
	popSize := math.Inf(1)
	if a.popSize > 0 {
		popSize = float64(a.popSize)
	}
	return Summary{
		Test:         "alpha-mart",
		Null:         fmt.Sprintf("mean <= %g", a.t),
		Alternative:  fmt.Sprintf("mean > %g", a.t),
		Alpha:        a.alpha,
		P:            a.Pval(),
		Decision:     a.Decision(),
		Observations: a.summ.Count(),
		PopSize:      popSize,
	}
}
