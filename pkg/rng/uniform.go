package rng

import (
	"math/rand"
	"time"
)

var _ RNG = &UniformRNG{}

// UniformRNG generates uniform observations on [lo, hi]
type UniformRNG struct {
	lo float64
	hi float64
	r  *rand.Rand
}

func (r *UniformRNG) Rand() float64 {
	return r.lo + (r.hi-r.lo)*r.r.Float64()
}

func NewUniformRNG(lo float64, hi float64) *UniformRNG {
	return &UniformRNG{
		lo: lo,
		hi: hi,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}
