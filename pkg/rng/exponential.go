package rng

import (
	"math/rand"
	"time"
)

var _ RNG = &ExponentialRNG{}

// ExponentialRNG generates exponentially distributed numbers with rate theta
type ExponentialRNG struct {
	theta float64
	r     *rand.Rand
}

func (r *ExponentialRNG) Rand() float64 {
	return r.r.ExpFloat64() / r.theta
}

func NewExponentialRNG(theta float64) *ExponentialRNG {
	return &ExponentialRNG{
		theta: theta,
		r:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}
