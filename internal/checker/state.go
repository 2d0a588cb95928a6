package checker

import "sync"

// Severity controls how a result is presented.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Phase is the coarse UI state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseResult:
		return "result"
	default:
		return "idle"
	}
}

// State is one of Idle, Loading or Result(message, severity).
type State struct {
	Phase    Phase
	Message  string
	Severity Severity
}

// Idle is the initial state.
func Idle() State { return State{Phase: PhaseIdle} }

// Loading is shown while a lookup is in flight.
func Loading() State { return State{Phase: PhaseLoading} }

// Result is a settled outcome.
func Result(message string, severity Severity) State {
	return State{Phase: PhaseResult, Message: message, Severity: severity}
}

// Store holds the single displayed State. Writes are last-write-wins.
type Store struct {
	mu        sync.Mutex
	state     State
	observers []func(State)
}

func NewStore() *Store {
	return &Store{state: Idle()}
}

// State returns the currently displayed state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive every transition. Observers run under the
// store lock, in transition order, and must not call back into the store.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Store) set(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	for _, fn := range s.observers {
		fn(st)
	}
}
