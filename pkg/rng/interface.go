// Package rng implements random number generators for simulating observation
// streams, used to estimate realized error rates of the sequential tests by
// Monte Carlo simulation.
package rng

// RNG is a random number generator
type RNG interface {
	Rand() float64
}
