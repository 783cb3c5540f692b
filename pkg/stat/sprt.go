package stat

import (
	"fmt"
	"math"

	"github.com/BTBurke/seqtest/pkg/fsm"
	"github.com/BTBurke/seqtest/pkg/series"
)

// LogLikelihood is the log density of a single observation under a
// distribution parameterized by theta, used by SPRT to accumulate the
// log-likelihood-ratio process.  Constant terms that cancel in the ratio may
// be dropped.
type LogLikelihood interface {
	LL(x, theta float64) float64
	String() string
}

// ExponentialLogLikelihood is the log likelihood of an exponential
// distribution with rate theta
type ExponentialLogLikelihood struct{}

func (ExponentialLogLikelihood) LL(x, theta float64) float64 {
	return math.Log(theta) - x*theta
}

func (ExponentialLogLikelihood) String() string {
	return "exponential"
}

// NormalLogLikelihood is the log likelihood of a normal distribution with
// location theta and fixed scale Sigma, up to an additive constant
type NormalLogLikelihood struct {
	Sigma float64
}

// NewNormalLogLikelihood returns a normal log likelihood with the given
// scale.  If sigma <= 0 it is set to 1.
func NewNormalLogLikelihood(sigma float64) NormalLogLikelihood {
	if sigma <= 0 {
		sigma = 1
	}
	return NormalLogLikelihood{Sigma: sigma}
}

func (l NormalLogLikelihood) LL(x, theta float64) float64 {
	return -(x - theta) * (x - theta) / (2 * l.Sigma * l.Sigma)
}

func (l NormalLogLikelihood) String() string {
	return fmt.Sprintf("normal(sigma=%g)", l.Sigma)
}

// SPRT is Wald's Sequential Probability Ratio Test of the simple hypothesis
// theta = theta0 against theta = theta1 for the parameter of a distribution
// with the given log likelihood.  The running sum of per-observation
// log-likelihood ratios is compared against fixed acceptance and rejection
// thresholds derived from the error rates alpha and beta.  Unlike AlphaMart,
// SPRT can terminate in either direction.
type SPRT struct {
	alpha  float64
	beta   float64
	theta0 float64
	theta1 float64
	a      float64
	b      float64
	ll     LogLikelihood

	llr     *series.History
	nObs    int
	machine *fsm.Machine
}

var _ SeqTest = &SPRT{}

// NewSPRT returns a new sequential probability ratio test with type I error
// rate alpha and type II error rate beta
func NewSPRT(alpha, beta, theta0, theta1 float64, ll LogLikelihood) (*SPRT, error) {
	if alpha <= 0 || alpha >= 1 || beta <= 0 || beta >= 1 {
		return nil, fmt.Errorf("error rates must be in (0,1), got alpha=%f beta=%f", alpha, beta)
	}
	if theta0 == theta1 {
		return nil, fmt.Errorf("hypotheses must be distinct, got theta0 = theta1 = %f", theta0)
	}
	if ll == nil {
		return nil, fmt.Errorf("a log likelihood is required")
	}
	machine, err := fsm.NewMachine(Continue, fsm.WithTransitions(
		fsm.T(Continue, Accept, Reject),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create decision FSM: %v", err)
	}
	s := &SPRT{
		alpha:   alpha,
		beta:    beta,
		theta0:  theta0,
		theta1:  theta1,
		a:       math.Log(beta / (1 - alpha)),
		b:       math.Log((1 - beta) / alpha),
		ll:      ll,
		llr:     series.NewHistory(),
		machine: machine,
	}
	s.llr.Append(0)
	return s, nil
}

// Update consumes a batch of observations in order and returns the resulting
// decision.  Calling Update after the test has reached a terminal decision is
// a hard error.
func (s *SPRT) Update(x []float64) (fsm.State, error) {
	if s.Stopped() {
		return s.Decision(), fmt.Errorf("cannot update: test already reached terminal decision %s", s.Decision())
	}
	for _, xi := range x {
		s.llr.Append(s.llr.Current() + s.ll.LL(xi, s.theta1) - s.ll.LL(xi, s.theta0))
		s.nObs++
	}
	switch {
	case s.llr.Current() <= s.a:
		if err := s.machine.Transition(Accept); err != nil {
			return s.Decision(), err
		}
	case s.llr.Current() >= s.b:
		if err := s.machine.Transition(Reject); err != nil {
			return s.Decision(), err
		}
	}
	return s.Decision(), nil
}

// LLR returns the history of the cumulative log-likelihood-ratio process,
// starting from its initial zero entry
func (s *SPRT) LLR() []float64 {
	return s.llr.Values()
}

// Decision returns the current testing decision
func (s *SPRT) Decision() fsm.State {
	return s.machine.State()
}

// Stopped returns true once the test has reached a terminal decision
func (s *SPRT) Stopped() bool {
	return s.machine.Terminal()
}

// Summary returns a descriptive record of the current state of the test.
// SPRT does not produce a p-value, so P is always NaN.
func (s *SPRT) Summary() Summary {
	return Summary{
		Test:         fmt.Sprintf("sprt(%s)", s.ll),
		Null:         fmt.Sprintf("theta = %g", s.theta0),
		Alternative:  fmt.Sprintf("theta = %g", s.theta1),
		Alpha:        s.alpha,
		P:            math.NaN(),
		Decision:     s.Decision(),
		Observations: s.nObs,
		PopSize:      math.Inf(1),
	}
}
