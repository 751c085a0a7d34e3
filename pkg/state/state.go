// Package state implements the two-state measurement machine. The machine
// carries no side effects; the coordinator reacts to transitions it reports.
package state

// State enumerates the measurement states.
type State int

const (
	// Idle means no sampling is taking place.
	Idle State = iota
	// Measuring means sensor readings are collected on each sampling interval.
	Measuring
)

var stateNames = [...]string{"IDLE", "MEASURING"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// Machine alternates strictly Idle -> Measuring -> Idle for the lifetime of
// the process. There is no terminal state.
type Machine struct {
	current State
}

// New creates a machine in the Idle state.
func New() *Machine {
	return &Machine{current: Idle}
}

// Toggle flips between Idle and Measuring and returns the new state.
func (m *Machine) Toggle() State {
	if m.current == Idle {
		m.current = Measuring
	} else {
		m.current = Idle
	}
	return m.current
}

// ForceStop unconditionally returns the machine to Idle. It reports whether a
// transition actually happened; from Idle it is a no-op.
func (m *Machine) ForceStop() bool {
	if m.current != Measuring {
		return false
	}
	m.current = Idle
	return true
}

// Current returns the current state.
func (m *Machine) Current() State { return m.current }

// IsMeasuring reports whether the machine is in the Measuring state.
func (m *Machine) IsMeasuring() bool { return m.current == Measuring }
