// Package fsm implements the finite state machine that drives the decision
// lifecycle of sequential tests.
package fsm

import (
	"fmt"
)

// State represents a possible transition state for the FSM
type State string

// Machine is a basic finite state machine with a fixed set of allowable
// transitions declared at construction
type Machine struct {
	current   State
	initial   State
	allowable map[State][]State
	stoppable stoppable
}

// NewMachine returns a new Machine with configured options.  A machine
// constructed without options has no allowable transitions and remains in
// its initial state forever.
func NewMachine(initial State, opts ...MachineOption) (*Machine, error) {
	machine := &Machine{
		current:   initial,
		initial:   initial,
		allowable: map[State][]State{},
	}
	for _, opt := range opts {
		if err := opt(machine); err != nil {
			return nil, err
		}
	}
	return machine, nil
}

// State returns the current state of the Machine
func (m *Machine) State() State {
	return m.current
}

// Allowable checks whether a transition between two states is allowable
func (m *Machine) Allowable(from, to State) bool {
	return contains(to, m.allowable[from])
}

// Terminal returns true when no transitions lead out of the current state
func (m *Machine) Terminal() bool {
	return len(m.allowable[m.current]) == 0
}

// Transition will change the current state of the machine if it is allowable
func (m *Machine) Transition(to State) error {
	return m.transition(to, m.stoppable)
}

// Reset will reset the machine to its initial state and remove any stop
// condition if it exists
func (m *Machine) Reset() {
	m.current = m.initial
	m.stoppable.stopped = false
}

func (m *Machine) transition(to State, guards ...transitionGuard) error {
	for _, guard := range guards {
		if err := guard.ok(); err != nil {
			m.stoppable.stopped = true
			return err
		}
	}

	switch m.Allowable(m.current, to) {
	case true:
		m.current = to
		return nil
	default:
		m.stoppable.stopped = true
		return TransitionNotAllowed{Msg: fmt.Sprintf("cannot transition from state %s to %s", m.current, to)}
	}
}

func contains(s State, all []State) bool {
	for _, a := range all {
		if s == a {
			return true
		}
	}
	return false
}
