package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatten(t *testing.T) {
	t1 := Transition{
		From: State("continue"),
		To:   State("reject"),
	}
	t1_2 := []Transition{t1, t1}
	var tt = []struct {
		in  [][]Transition
		out []Transition
	}{
		{in: [][]Transition{t1_2, t1_2}, out: []Transition{t1, t1, t1, t1}},
	}

	for _, case1 := range tt {
		out := flatten(case1.in)
		assert.Equal(t, case1.out, out, "should flatten nested transition statements")
	}
}

func TestContains(t *testing.T) {
	var m = map[State][]State{
		State("continue"): []State{State("accept"), State("reject")},
		State("testing"):  []State{"reject"},
	}
	var tt = []struct {
		from   State
		to     State
		expect bool
	}{
		{from: State("continue"), to: State("accept"), expect: true},
		{from: State("continue"), to: State("reject"), expect: true},
		{from: State("continue"), to: State(""), expect: false},
		{from: State("testing"), to: State("reject"), expect: true},
		{from: State("notexist"), to: State("accept"), expect: false},
		{from: State(""), to: State(""), expect: false},
	}
	for _, t1 := range tt {
		out := contains(t1.to, m[t1.from])
		assert.Equal(t, out, t1.expect, "should properly find allowable transitions")
	}
}

func TestMachineCreation(t *testing.T) {
	var expect = map[State][]State{
		State("continue"): []State{State("testing")},
		State("testing"):  []State{State("accept"), State("reject")},
	}
	m, err := NewMachine(State("continue"), WithTransition(Transition{State("continue"), State("testing")}),
		WithTransitions(T(State("testing"), State("accept"), State("reject"))))
	assert.NoError(t, err)
	assert.Equal(t, m.allowable, expect)
}

func TestMachine(t *testing.T) {
	m, err := NewMachine(State("continue"), WithTransitions(
		T(State("continue"), State("testing")),
		T(State("testing"), State("accept"), State("reject")),
	))
	assert.NoError(t, err)
	assert.Equal(t, m.current, State("continue"))
	assert.Equal(t, m.initial, State("continue"))
	assert.True(t, m.Allowable(m.State(), State("testing")))
	assert.False(t, m.Allowable(m.State(), State("reject")))
	assert.NoError(t, m.Transition(State("testing")))
	assert.Error(t, m.Transition(State("continue")))
	assert.Equal(t, m.current, State("testing"))
	assert.NoError(t, m.Transition("reject"))
	assert.True(t, m.Terminal())
}

func TestMachineStop(t *testing.T) {
	m, err := NewMachine(State("continue"), WithStoppable(), WithTransitions(
		T(State("continue"), State("reject")),
	))
	assert.NoError(t, err)
	assert.Error(t, m.Transition(State("nonexistent")))
	err = m.Transition(State("reject"))
	assert.Error(t, err)
	assert.IsType(t, StopError{}, err)
	m.Reset()
	assert.NoError(t, m.Transition(State("reject")))
}
