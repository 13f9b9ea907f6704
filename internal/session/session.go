// Package session drives a run of typing rounds over sentences from a provider pool.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/verte-zerg/typers/internal/stats"
	"github.com/verte-zerg/typers/internal/typing"
)

// Phase is the position of a session in its round cycle.
type Phase int

// Session phases.
const (
	AwaitingSentence Phase = iota
	InProgress
	RoundComplete
	Finished
)

func (p Phase) String() string {
	switch p {
	case AwaitingSentence:
		return "awaiting sentence"
	case InProgress:
		return "in progress"
	case RoundComplete:
		return "round complete"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// ErrInterrupted is returned by a KeyReader when the user quits the run.
var ErrInterrupted = errors.New("interrupted")

// SentenceSource supplies the next sentence for a round.
type SentenceSource interface {
	Acquire(ctx context.Context) (string, error)
}

// View is what a renderer needs to draw one frame.
type View struct {
	State   *typing.State
	Metrics stats.Snapshot
	Round   int
	Rounds  int
	Phase   Phase
}

// Summary reports the cumulative results of a run.
type Summary struct {
	Rounds      int
	Errors      int
	TypedChars  int
	TypedWords  int
	Accuracy    float64
	HasAccuracy bool
	WPM         float64
	RoundWPM    []float64
	Elapsed     time.Duration
}

// Session owns the counters, the sentence source, and the current typing state.
// All methods must be called from one goroutine, except Fetch which only
// touches the source.
type Session struct {
	source    SentenceSource
	rounds    int
	completed int
	phase     Phase
	state     *typing.State
	counters  *typing.Counters
	roundWPM  []float64
	logger    *slog.Logger
	now       func() time.Time
}

// New returns a session of the given number of rounds. The session clock starts now.
func New(src SentenceSource, rounds int, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		source: src,
		rounds: rounds,
		logger: logger,
		now:    time.Now,
	}
	s.counters = typing.NewCounters(s.now())
	s.state = typing.Load("")
	if rounds <= 0 {
		s.phase = Finished
	}
	return s
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Counters returns the cumulative counters.
func (s *Session) Counters() *typing.Counters {
	return s.counters
}

// State returns the typing state of the current round.
func (s *Session) State() *typing.State {
	return s.state
}

// Fetch requests the next sentence from the source.
func (s *Session) Fetch(ctx context.Context) (string, error) {
	return s.source.Acquire(ctx)
}

// Load replaces the typing state with sentence and starts the round.
func (s *Session) Load(sentence string) {
	if s.phase != AwaitingSentence {
		s.logger.Debug("ignoring sentence outside of awaiting phase", "phase", s.phase)
		return
	}
	s.state = typing.Load(sentence)
	s.phase = InProgress
	s.logger.Debug("round started", "round", s.completed+1, "len", s.state.Len())
	s.checkDone()
}

// Apply feeds one input event to the current round.
func (s *Session) Apply(ev typing.KeyEvent) {
	if s.phase != InProgress {
		return
	}
	typing.Apply(s.state, s.counters, ev)
	s.checkDone()
}

// Advance closes a completed round and moves to the next one or to Finished.
func (s *Session) Advance() {
	if s.phase != RoundComplete {
		return
	}
	s.completed++
	if s.completed >= s.rounds {
		s.phase = Finished
		return
	}
	s.phase = AwaitingSentence
}

// Metrics returns the live metrics snapshot.
func (s *Session) Metrics() stats.Snapshot {
	return stats.Measure(s.counters, s.now())
}

// View returns the current frame.
func (s *Session) View() View {
	round := s.completed + 1
	if round > s.rounds {
		round = s.rounds
	}
	return View{
		State:   s.state,
		Metrics: s.Metrics(),
		Round:   round,
		Rounds:  s.rounds,
		Phase:   s.phase,
	}
}

// Summary returns the cumulative results so far.
func (s *Session) Summary() Summary {
	snap := s.Metrics()
	return Summary{
		Rounds:      s.completed,
		Errors:      s.counters.Errors,
		TypedChars:  s.counters.TypedChars,
		TypedWords:  s.counters.TypedWords,
		Accuracy:    snap.Accuracy,
		HasAccuracy: snap.HasAccuracy,
		WPM:         snap.WPM,
		RoundWPM:    append([]float64(nil), s.roundWPM...),
		Elapsed:     s.now().Sub(s.counters.StartedAt),
	}
}

func (s *Session) checkDone() {
	if !s.state.Done() {
		return
	}
	s.phase = RoundComplete
	wpm := s.Metrics().WPM
	s.roundWPM = append(s.roundWPM, wpm)
	s.logger.Debug("round complete", "round", s.completed+1, "errors", s.counters.Errors, "wpm", wpm)
}

// KeyReader blocks for the next input event.
type KeyReader interface {
	ReadKey(ctx context.Context) (typing.KeyEvent, error)
}

// Renderer draws a frame.
type Renderer interface {
	Render(v View) error
}

// Run drives the session to completion, blocking on in for every keystroke.
// The returned summary is valid even when err is non-nil.
func (s *Session) Run(ctx context.Context, in KeyReader, out Renderer) (Summary, error) {
	for {
		switch s.phase {
		case AwaitingSentence:
			text, err := s.Fetch(ctx)
			if err != nil {
				return s.Summary(), fmt.Errorf("failed to get sentence for round %d: %w", s.completed+1, err)
			}
			s.Load(text)
		case InProgress:
			if err := out.Render(s.View()); err != nil {
				return s.Summary(), fmt.Errorf("render: %w", err)
			}
			ev, err := in.ReadKey(ctx)
			if err != nil {
				return s.Summary(), err
			}
			s.Apply(ev)
		case RoundComplete:
			if err := out.Render(s.View()); err != nil {
				return s.Summary(), fmt.Errorf("render: %w", err)
			}
			s.Advance()
		case Finished:
			return s.Summary(), nil
		}
	}
}
