// Command calibrate estimates the realized false-rejection rate of the
// sequential tests by Monte Carlo simulation of streams drawn under the null
// hypothesis.  The realized rate should stay at or below the nominal
// significance level for every configuration; results are written to a text
// file for inspection.
package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/BTBurke/seqtest/pkg/rng"
	"github.com/BTBurke/seqtest/pkg/stat"
)

const (
	Loops int = 2000
	Run   int = 200
)

var wg sync.WaitGroup

type results struct {
	name string
	mu   sync.Mutex
	val  map[float64]float64
}

func (r *results) record(alpha float64, rate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.val[alpha] = rate
}

func newResults(name string) *results {
	return &results{
		name: name,
		val:  make(map[float64]float64),
	}
}

func main() {
	alphaRes := newResults("alpha-mart-bernoulli")
	alphaUnifRes := newResults("alpha-mart-uniform")
	sprtNormRes := newResults("sprt-normal")
	sprtExpRes := newResults("sprt-exponential")

	start := time.Now()
	for _, alpha := range []float64{0.2, 0.1, 0.05, 0.01} {
		wg.Add(4)
		log.Printf("start alpha=%f\n", alpha)
		go alphaMartErrorRate(alphaRes, rng.NewBernoulliRNG(0.5), alpha)
		go alphaMartErrorRate(alphaUnifRes, rng.NewUniformRNG(0, 1), alpha)
		go sprtNormalErrorRate(sprtNormRes, alpha)
		go sprtExponentialErrorRate(sprtExpRes, alpha)
	}
	wg.Wait()
	fmt.Printf("Time Elapsed: %v\n", time.Since(start))

	for _, res := range []*results{alphaRes, alphaUnifRes, sprtNormRes, sprtExpRes} {
		var b bytes.Buffer
		for alpha, rate := range res.val {
			b.WriteString(fmt.Sprintf("%f %f\n", alpha, rate))
		}
		if err := os.WriteFile(fmt.Sprintf("%s.txt", res.name), b.Bytes(), 0644); err != nil {
			log.Fatalf("unable to write results: %v", err)
		}
	}
}

// alphaMartErrorRate simulates streams with mean exactly at the hypothesized
// threshold and records how often the test falsely rejects
func alphaMartErrorRate(results *results, gen rng.RNG, alpha float64) {
	defer wg.Done()
	rejections := 0
	for i := 0; i < Loops; i++ {
		t, err := stat.NewAlphaMart(stat.WithAlpha(alpha))
		if err != nil {
			log.Fatalf("unexpected error constructing test: %v", err)
		}
		for j := 0; j < Run && !t.Stopped(); j++ {
			if _, err := t.Update([]float64{gen.Rand()}); err != nil {
				log.Fatalf("unexpected error recording value: %v", err)
			}
		}
		if t.Decision() == stat.Reject {
			rejections++
		}
	}
	results.record(alpha, float64(rejections)/float64(Loops))
}

// sprtNormalErrorRate simulates Normal(theta0) streams and records how often
// the test falsely rejects in favor of theta1
func sprtNormalErrorRate(results *results, alpha float64) {
	defer wg.Done()
	gen := rng.NewNormalRNG(0, 1)
	rejections := 0
	for i := 0; i < Loops; i++ {
		t, err := stat.NewSPRT(alpha, 0.05, 0, 1, stat.NewNormalLogLikelihood(1))
		if err != nil {
			log.Fatalf("unexpected error constructing test: %v", err)
		}
		for j := 0; j < Run && !t.Stopped(); j++ {
			if _, err := t.Update([]float64{gen.Rand()}); err != nil {
				log.Fatalf("unexpected error recording value: %v", err)
			}
		}
		if t.Decision() == stat.Reject {
			rejections++
		}
	}
	results.record(alpha, float64(rejections)/float64(Loops))
}

// sprtExponentialErrorRate simulates Exponential(theta0) streams and records
// how often the test falsely rejects in favor of theta1
func sprtExponentialErrorRate(results *results, alpha float64) {
	defer wg.Done()
	gen := rng.NewExponentialRNG(1)
	rejections := 0
	for i := 0; i < Loops; i++ {
		t, err := stat.NewSPRT(alpha, 0.05, 1, 2, stat.ExponentialLogLikelihood{})
		if err != nil {
			log.Fatalf("unexpected error constructing test: %v", err)
		}
		for j := 0; j < Run && !t.Stopped(); j++ {
			if _, err := t.Update([]float64{gen.Rand()}); err != nil {
				log.Fatalf("unexpected error recording value: %v", err)
			}
		}
		if t.Decision() == stat.Reject {
			rejections++
		}
	}
	results.record(alpha, float64(rejections)/float64(Loops))
}
