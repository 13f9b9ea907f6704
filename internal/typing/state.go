// Package typing implements the per-sentence typing state machine.
package typing

import "time"

// CharState classifies the typing progress of one byte position.
type CharState int

// Character states.
const (
	Pending CharState = iota
	Current
	Correct
	Wrong
	Corrected
)

func (s CharState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Current:
		return "current"
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	case Corrected:
		return "corrected"
	default:
		return "unknown"
	}
}

// State is the progress model for a single sentence. Positions are bytes.
type State struct {
	sentence string
	states   []CharState
	cursor   int
}

// Load builds a fresh state for sentence. Position 0 becomes Current unless
// the sentence is empty, in which case the state is already done.
func Load(sentence string) *State {
	st := &State{
		sentence: sentence,
		states:   make([]CharState, len(sentence)),
	}
	if len(st.states) > 0 {
		st.states[0] = Current
	}
	return st
}

// Sentence returns the target text.
func (s *State) Sentence() string {
	return s.sentence
}

// Len returns the number of byte positions.
func (s *State) Len() int {
	return len(s.sentence)
}

// Cursor returns the index of the next position awaiting a correct keystroke.
func (s *State) Cursor() int {
	return s.cursor
}

// At returns the state of position i.
func (s *State) At(i int) CharState {
	return s.states[i]
}

// States returns a copy of the per-position states.
func (s *State) States() []CharState {
	out := make([]CharState, len(s.states))
	copy(out, s.states)
	return out
}

// Done reports whether the round is complete.
func (s *State) Done() bool {
	return s.cursor == len(s.sentence)
}

// Progress returns the completed fraction in [0, 1].
func (s *State) Progress() float64 {
	if len(s.sentence) == 0 {
		return 1
	}
	return float64(s.cursor) / float64(len(s.sentence))
}

// Counters are cumulative over a whole session and never reset between sentences.
type Counters struct {
	Errors     int
	TypedChars int
	// TypedWords counts correctly typed spaces.
	TypedWords int
	StartedAt  time.Time
}

// NewCounters returns zeroed counters whose clock starts at startedAt.
func NewCounters(startedAt time.Time) *Counters {
	return &Counters{StartedAt: startedAt}
}
