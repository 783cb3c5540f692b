package stat

import (
	"math"
)

// FixedBet always wagers the same fraction of the current wealth
type FixedBet struct {
	lam float64
}

// NewFixedBet returns a bet that always wagers lam
func NewFixedBet(lam float64) *FixedBet {
	return &FixedBet{lam: lam}
}

// Bet returns the fixed wagering fraction regardless of the state of the
// stream
func (b *FixedBet) Bet(s Summaries, m float64) float64 {
	return b.lam
}

// AGRAPA is the approximate-GRAPA adaptive bet: the sample analogue of the
// growth-rate-optimal wager, an inverse-variance-weighted measure of how far
// the running mean sits above the null mean reference.  The allowed bet is
// capped by a schedule that grows towards cMax as observations accrue.
type AGRAPA struct {
	lam0  float64
	c0    float64
	cMax  float64
	cGrow float64
}

// AGRAPAOption applies options to construct a custom AGRAPA bet
type AGRAPAOption func(b *AGRAPA)

// NewAGRAPA returns an AGRAPA bet with defaults lam0 = 0.5, c0 and cMax just
// below 1, and no cap growth
func NewAGRAPA(opts ...AGRAPAOption) *AGRAPA {
	b := &AGRAPA{
		lam0:  0.5,
		c0:    1 - eps,
		cMax:  1 - eps,
		cGrow: 0,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithFallbackBet sets the bet used when no previous statistics exist to
// compute the adaptive wager
func WithFallbackBet(lam0 float64) AGRAPAOption {
	return func(b *AGRAPA) {
		b.lam0 = lam0
	}
}

// WithCapSchedule sets the initial cap c0, the limiting cap cMax, and the
// growth rate cGrow of the bet cap schedule
func WithCapSchedule(c0, cMax, cGrow float64) AGRAPAOption {
	return func(b *AGRAPA) {
		b.c0 = c0
		b.cMax = cMax
		b.cGrow = cGrow
	}
}

// Bet returns the capped approximate-GRAPA wager using only statistics from
// before the latest observation
func (b *AGRAPA) Bet(s Summaries, m float64) float64 {
	prevMean := s.PrevMean()
	prevVar := s.PrevVar()
	lam := (prevMean - m) / (prevVar + (prevMean-m)*(prevMean-m))
	if math.IsNaN(lam) {
		lam = b.lam0
	}
	c := b.c0 + (b.cMax-b.cGrow)*(1-1/(1+b.cGrow*math.Sqrt(float64(s.Count()))))
	// clip so the wager is non-negative and the implied eta cannot exceed u
	return math.Max(0, math.Min(c/m, lam))
}
