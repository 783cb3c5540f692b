package stat

import (
	"math"
)

// Estimator produces an estimate eta of the population mean under the
// alternative hypothesis.  m is the current estimate of the mean under the
// null: the out-of-sample mean when the population is finite, or the
// hypothesized threshold otherwise.  Implementations must use only
// previous-step statistics from s; using the statistics that include the
// current observation would break the martingale property of the test.
type Estimator interface {
	Estim(s Summaries, m float64) float64
}

// Bet produces a wagering fraction lambda of the current wealth of the test
// martingale.  The same previous-step restriction as for Estimator applies.
type Bet interface {
	Bet(s Summaries, m float64) float64
}

// BetToEstimate converts a wagering fraction lam into the equivalent mean
// estimate eta, given the current null mean reference mu and the upper bound u
func BetToEstimate(lam, mu, u float64) float64 {
	return mu * (1 + lam*(u-mu))
}

// etaSource treats estimators and bets uniformly through a single
// "produce eta" capability
type etaSource interface {
	eta(s Summaries, m float64) float64
}

type estimatorEta struct {
	e Estimator
}

func (a estimatorEta) eta(s Summaries, m float64) float64 {
	return a.e.Estim(s, m)
}

type betEta struct {
	b Bet
	u float64
}

func (a betEta) eta(s Summaries, m float64) float64 {
	return BetToEstimate(a.b.Bet(s, m), m, a.u)
}

// ShrinkTrunc is a shrinkage-truncation estimator for the mean of a bounded,
// non-negative data stream.  The plain running mean is pulled towards the
// target eta0 with weight d acting as a virtual sample size, optionally
// shrunk a second time towards u with weight f, then truncated into a band
// that stays strictly below u and never falls below the null mean reference
// by more than a shrinking margin.
type ShrinkTrunc struct {
	u     float64
	t     float64
	eta0  float64
	c     float64
	d     float64
	f     float64
	minsd float64
}

// ShrinkTruncOption applies options to construct a custom ShrinkTrunc
type ShrinkTruncOption func(e *ShrinkTrunc)

// NewShrinkTrunc returns a ShrinkTrunc estimator for observations in [0, u]
// testing against the hypothesized mean t.  Defaults: eta0 just below u,
// c = (eta0-t)/2, d = 100, f = 0, minsd = 1e-6.
func NewShrinkTrunc(u, t float64, opts ...ShrinkTruncOption) *ShrinkTrunc {
	e := &ShrinkTrunc{
		u:     u,
		t:     t,
		eta0:  math.NaN(),
		c:     math.NaN(),
		d:     100,
		f:     0,
		minsd: 1e-6,
	}
	for _, opt := range opts {
		opt(e)
	}
	if math.IsNaN(e.eta0) {
		e.eta0 = u * (1 - eps)
	}
	if math.IsNaN(e.c) {
		e.c = (e.eta0 - e.t) / 2
	}
	return e
}

// WithShrinkTarget sets the shrinkage target eta0
func WithShrinkTarget(eta0 float64) ShrinkTruncOption {
	return func(e *ShrinkTrunc) {
		e.eta0 = eta0
	}
}

// WithHalfWidth sets the half-width control c of the truncation band
func WithHalfWidth(c float64) ShrinkTruncOption {
	return func(e *ShrinkTrunc) {
		e.c = c
	}
}

// WithShrinkWeight sets the shrinkage weight d, the virtual sample size
// pulling the running mean towards eta0
func WithShrinkWeight(d float64) ShrinkTruncOption {
	return func(e *ShrinkTrunc) {
		e.d = d
	}
}

// WithReshrinkWeight sets the secondary shrinkage weight f towards u
func WithReshrinkWeight(f float64) ShrinkTruncOption {
	return func(e *ShrinkTrunc) {
		e.f = f
	}
}

// WithMinSD sets the floor below which the previous standard deviation is
// replaced by 1 to guard division by zero
func WithMinSD(minsd float64) ShrinkTruncOption {
	return func(e *ShrinkTrunc) {
		e.minsd = minsd
	}
}

// Estim calculates the shrinkage truncation estimate using only statistics
// from before the latest observation
func (e *ShrinkTrunc) Estim(s Summaries, m float64) float64 {
	prevSum := s.PrevSum()
	if math.IsNaN(prevSum) {
		prevSum = 0
	}
	prevSD := math.Sqrt(s.PrevVar())
	if math.IsNaN(prevSD) || prevSD < e.minsd {
		prevSD = 1
	}
	count := float64(s.Count())
	shrunk := (e.d*e.eta0 + prevSum) / (e.d + count - 1)
	reshrunk := (shrunk + e.u*e.f/prevSD) / (1 + e.f/prevSD)
	// the estimate must never reach u exactly or the e-value formula divides
	// by zero
	return math.Min(
		e.u*(1-eps),
		math.Max(reshrunk, m+e.c/math.Sqrt(e.d+count-1)),
	)
}
