package install

import "slices"

// State is the progress of one package within an install run.
type State int

const (
	// Visiting marks a package whose dependencies are being installed.
	// Meeting it again means the graph has a cycle.
	Visiting State = iota
	// Installed marks a package whose working copy is checked out and integrated.
	Installed
	// Failed marks a package that could not be installed in this run.
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Visiting:
		return "visiting"
	case Installed:
		return "installed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Set records every package visited by one install run. It is created empty
// for each top-level command and never reused.
type Set struct {
	states    map[string]State
	installed []string
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{states: make(map[string]State)}
}

// Has reports whether name was visited in this run.
func (s *Set) Has(name string) bool {
	_, ok := s.states[name]
	return ok
}

// State returns the state of name.
func (s *Set) State(name string) (State, bool) {
	st, ok := s.states[name]
	return st, ok
}

// Installed returns the installed packages in installation order.
func (s *Set) Installed() []string {
	return slices.Clone(s.installed)
}

// Len returns the number of visited packages.
func (s *Set) Len() int {
	return len(s.states)
}

func (s *Set) mark(name string, st State) {
	s.states[name] = st
	if st == Installed {
		s.installed = append(s.installed, name)
	}
}
