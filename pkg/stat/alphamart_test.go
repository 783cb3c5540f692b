package stat

import (
	"math"
	"math/rand"
	"testing"

	"github.com/BTBurke/seqtest/pkg/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphaMartDefaults(t *testing.T) {
	a, err := NewAlphaMart()
	require.NoError(t, err)
	assert.Equal(t, Continue, a.Decision())
	assert.False(t, a.Stopped())
	assert.True(t, math.IsNaN(a.Pval()))
	sum := a.Summary()
	assert.Equal(t, "alpha-mart", sum.Test)
	assert.Equal(t, 0.05, sum.Alpha)
	assert.Equal(t, 0, sum.Observations)
	assert.True(t, math.IsInf(sum.PopSize, 1))
}

func TestAlphaMartValidation(t *testing.T) {
	tt := []struct {
		name string
		opts []AlphaMartOption
	}{
		{name: "alpha too large", opts: []AlphaMartOption{WithAlpha(1.5)}},
		{name: "alpha zero", opts: []AlphaMartOption{WithAlpha(0)}},
		{name: "threshold above bound", opts: []AlphaMartOption{WithBound(1), WithThreshold(1.5)}},
		{name: "threshold zero", opts: []AlphaMartOption{WithThreshold(0)}},
		{name: "negative bound", opts: []AlphaMartOption{WithBound(-1)}},
		{name: "zero population", opts: []AlphaMartOption{WithPopulation(0)}},
		{name: "estimator and bet", opts: []AlphaMartOption{WithEstimator(NewShrinkTrunc(1, 0.5)), WithBet(NewFixedBet(0.5))}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAlphaMart(tc.opts...)
			assert.Error(t, err)
		})
	}
}

// A stream of constant 1.0s against t=0.5 is maximal evidence against the
// null: the e-process must grow and the test must reject quickly.
func TestAlphaMartRejectsConstantOnes(t *testing.T) {
	a, err := NewAlphaMart()
	require.NoError(t, err)
	steps := 0
	for steps < 20 && !a.Stopped() {
		_, err := a.Update([]float64{1.0})
		require.NoError(t, err)
		steps++
	}
	assert.Equal(t, Reject, a.Decision())
	assert.Less(t, a.Pval(), 0.05)
	assert.LessOrEqual(t, steps, 20)
	// the e-process grows monotonically on this stream
	ep := a.EProcess()
	for i := 1; i < len(ep); i++ {
		assert.Greater(t, ep[i], ep[i-1])
	}
}

// An alternating 0/1 stream has true mean exactly t: the e-process stays
// bounded and the test keeps sampling.
func TestAlphaMartContinuesOnNullStream(t *testing.T) {
	a, err := NewAlphaMart()
	require.NoError(t, err)
	x := make([]float64, 1000)
	for i := range x {
		x[i] = float64(i % 2)
	}
	d, err := a.Update(x)
	require.NoError(t, err)
	assert.Equal(t, Continue, d)
	assert.GreaterOrEqual(t, a.Pval(), 0.05)
}

func TestAlphaMartPHistoryNonIncreasing(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	a, err := NewAlphaMart()
	require.NoError(t, err)
	x := make([]float64, 500)
	for i := range x {
		x[i] = r.Float64()
	}
	_, err = a.Update(x)
	require.NoError(t, err)
	ph := a.PHistory()
	require.Equal(t, len(x), len(ph))
	for i := 1; i < len(ph); i++ {
		assert.LessOrEqual(t, ph[i], ph[i-1])
		assert.GreaterOrEqual(t, ph[i], 0.0)
		assert.LessOrEqual(t, ph[i], 1.0)
	}
}

func TestAlphaMartEProcessIsRunningProduct(t *testing.T) {
	a, err := NewAlphaMart()
	require.NoError(t, err)
	_, err = a.Update([]float64{1, 0, 1, 1, 0, 1, 1, 1})
	require.NoError(t, err)
	eh := a.EHist()
	ep := a.EProcess()
	require.Equal(t, len(eh), len(ep))
	prod := 1.0
	for i := range eh {
		prod *= eh[i]
		if prod == 0 {
			assert.Equal(t, 0.0, ep[i])
			continue
		}
		assert.InEpsilon(t, prod, ep[i], 1e-12)
	}
}

func TestAlphaMartFixedBetClosedForm(t *testing.T) {
	// a fixed bet of 0.5 with m = t = 0.5 and u = 1 gives eta = 0.625 at
	// every step of an unbounded stream
	a, err := NewAlphaMart(WithBet(NewFixedBet(0.5)))
	require.NoError(t, err)
	for i := 0; i < 20 && !a.Stopped(); i++ {
		_, err := a.Update([]float64{1.0})
		require.NoError(t, err)
	}
	for _, eta := range a.EtaHistory() {
		assert.InDelta(t, 0.625, eta, 1e-12)
	}
	// each e-value is (1*0.625/0.5)/1 = 1.25; rejection needs 14 steps
	assert.Equal(t, Reject, a.Decision())
	assert.Equal(t, 14, len(a.EHist()))
}

func TestAlphaMartAGRAPARejectsConstantOnes(t *testing.T) {
	a, err := NewAlphaMart(WithBet(NewAGRAPA()))
	require.NoError(t, err)
	steps := 0
	for steps < 20 && !a.Stopped() {
		_, err := a.Update([]float64{1.0})
		require.NoError(t, err)
		steps++
	}
	assert.Equal(t, Reject, a.Decision())
}

func TestAlphaMartUpdateAfterTerminalIsError(t *testing.T) {
	a, err := NewAlphaMart()
	require.NoError(t, err)
	for !a.Stopped() {
		_, err := a.Update([]float64{1.0})
		require.NoError(t, err)
	}
	d, err := a.Update([]float64{1.0})
	assert.Error(t, err)
	// decision never transitions away from reject
	assert.Equal(t, Reject, d)
}

func TestAlphaMartFinitePopulation(t *testing.T) {
	// with a population of 10 ones declared to have mean 0.5, the
	// out-of-sample mean collapses as sampling proceeds and the test rejects
	a, err := NewAlphaMart(WithPopulation(10))
	require.NoError(t, err)
	x := make([]float64, 10)
	for i := range x {
		x[i] = 1.0
	}
	d, err := a.Update(x)
	require.NoError(t, err)
	assert.Equal(t, Reject, d)
	sum := a.Summary()
	assert.Equal(t, 10, sum.Observations)
	assert.Equal(t, 10.0, sum.PopSize)
}

func TestAlphaMartFinitePopulationOverflow(t *testing.T) {
	a, err := NewAlphaMart(WithPopulation(5))
	require.NoError(t, err)
	_, err = a.Update([]float64{1, 1, 1, 1, 1, 1})
	require.Error(t, err)
	var overflow *stream.SampleOverflow
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, 6, overflow.Requested)
	assert.Equal(t, 0, overflow.Taken)
	assert.Equal(t, 5, overflow.PopSize)
	// the whole batch is rejected before any mutation
	assert.Equal(t, 0, a.Summary().Observations)
	assert.Empty(t, a.EHist())
}

func TestAlphaMartZeroEValuePropagates(t *testing.T) {
	// a population declared to have a high mean makes the out-of-sample mean
	// exceed u after observing zeros; those observations contribute e = 0
	// and the e-process is 0 from that index onward
	a, err := NewAlphaMart(WithPopulation(4), WithThreshold(0.9))
	require.NoError(t, err)
	d, err := a.Update([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, Continue, d)
	for _, e := range a.EHist() {
		assert.Equal(t, 0.0, e)
	}
	for _, e := range a.EProcess() {
		assert.Equal(t, 0.0, e)
	}
	// 1/0 never lowers the running-minimum p-value
	assert.Equal(t, 1.0, a.Pval())
}

func TestAlphaMartNeutralEValueNearBoundary(t *testing.T) {
	// when the null mean estimate sits within tolerance of 0 or u the
	// observation contributes a neutral e = 1, leaving the e-process and
	// p-value unchanged
	tt := []struct {
		name string
		opts []AlphaMartOption
	}{
		{name: "near zero", opts: []AlphaMartOption{WithThreshold(0.01)}},
		{name: "near bound", opts: []AlphaMartOption{WithThreshold(0.99)}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			opts := append(tc.opts, WithTolerances(0.02, 0), WithBet(NewFixedBet(0.5)))
			a, err := NewAlphaMart(opts...)
			require.NoError(t, err)
			d, err := a.Update([]float64{1, 1, 1})
			require.NoError(t, err)
			assert.Equal(t, Continue, d)
			for _, e := range a.EHist() {
				assert.Equal(t, 1.0, e)
			}
			for _, e := range a.EProcess() {
				assert.Equal(t, 1.0, e)
			}
			assert.Equal(t, 1.0, a.Pval())
		})
	}
}

func TestAlphaMartInfiniteEValueRejects(t *testing.T) {
	// sampling more mass than the declared population holds drives the
	// out-of-sample mean negative: the null is certainly false, the
	// observation contributes e = +Inf, and p drops to 0
	a, err := NewAlphaMart(WithPopulation(2), WithBound(2), WithThreshold(0.5))
	require.NoError(t, err)
	d, err := a.Update([]float64{1.5})
	require.NoError(t, err)
	assert.Equal(t, Reject, d)
	require.Len(t, a.EHist(), 1)
	assert.True(t, math.IsInf(a.EHist()[0], 1))
	assert.True(t, math.IsInf(a.EProcess()[0], 1))
	assert.Equal(t, 0.0, a.Pval())
	assert.True(t, a.Stopped())
}

// Feeding a null stream many times should rarely reject: the realized
// false-rejection rate is below alpha with a generous simulation margin.
func TestAlphaMartFalseRejectionRate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping simulation in short mode")
	}
	r := rand.New(rand.NewSource(7))
	rejections := 0
	const trials = 200
	for i := 0; i < trials; i++ {
		a, err := NewAlphaMart()
		require.NoError(t, err)
		for j := 0; j < 100 && !a.Stopped(); j++ {
			x := 0.0
			if r.Float64() < 0.5 {
				x = 1.0
			}
			_, err := a.Update([]float64{x})
			require.NoError(t, err)
		}
		if a.Decision() == Reject {
			rejections++
		}
	}
	assert.LessOrEqual(t, float64(rejections)/trials, 0.05+0.05)
}
