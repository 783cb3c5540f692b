package rng

import (
	"math/rand"
	"time"
)

var _ RNG = &BernoulliRNG{}

// BernoulliRNG generates 0/1 observations with success probability p, the
// canonical bounded stream for the non-negative-mean tests
type BernoulliRNG struct {
	p float64
	r *rand.Rand
}

func (r *BernoulliRNG) Rand() float64 {
	if r.r.Float64() < r.p {
		return 1
	}
	return 0
}

func NewBernoulliRNG(p float64) *BernoulliRNG {
	return &BernoulliRNG{
		p: p,
		r: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}
