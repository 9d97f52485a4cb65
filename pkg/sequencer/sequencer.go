// Package sequencer reveals the steps of a script one at a time, pausing for
// each step's delay.
//
// A Sequencer owns exactly one playback state. Selecting another script,
// resetting or closing the sequencer abandons the run in progress: its pending
// delay is cancelled and it never writes to the state again.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/appuio/symbiont-demo/pkg/script"
	"go.uber.org/zap"
)

var (
	ErrUnknownScript = errors.New("unknown script")
	ErrAbandoned     = errors.New("playback abandoned")
	ErrClosed        = errors.New("sequencer closed")
)

// Catalog looks up scripts by key.
type Catalog interface {
	Get(key string) (script.Script, bool)
}

// Clock provides the timers used for step delays.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// State is a consistent copy of the playback state.
type State struct {
	// Version increases with every change. Observers may receive states out of
	// order and should drop versions older than the last one seen.
	Version uint64

	ScriptID  string
	Cursor    int
	IsPlaying bool

	// Visible holds the revealed steps, index <= Cursor.
	Visible []script.Step
	// Total is the number of steps in the active script.
	Total int
}

// StepRunning reports whether more steps are pending in the current run.
func (s State) StepRunning() bool {
	return s.IsPlaying && s.Cursor < s.Total-1
}

type Option func(*Sequencer)

// WithClock replaces the wall clock used for delays.
func WithClock(c Clock) Option {
	return func(s *Sequencer) { s.clock = c }
}

// WithSpeed scales authored delays. 2 plays twice as fast. Values <= 0 are ignored.
func WithSpeed(speed float64) Option {
	return func(s *Sequencer) {
		if speed > 0 {
			s.speed = speed
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers a function called after every state change.
// It is called without holding the sequencer's lock, from the goroutine that
// made the change.
func WithObserver(fn func(State)) Option {
	return func(s *Sequencer) { s.observers = append(s.observers, fn) }
}

type Sequencer struct {
	catalog   Catalog
	clock     Clock
	speed     float64
	logger    *zap.Logger
	observers []func(State)

	mu        sync.Mutex
	version   uint64
	active    script.Script
	cursor    int
	playing   bool
	closed    bool
	runID     uint64
	cancelRun context.CancelFunc
}

func New(catalog Catalog, opts ...Option) *Sequencer {
	s := &Sequencer{
		catalog: catalog,
		clock:   realClock{},
		speed:   1,
		logger:  zap.NewNop(),
		cursor:  -1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SelectScript makes the script with the given key active, resetting the
// cursor and abandoning any run in progress.
// Selecting the already active script does nothing. An unknown key returns
// ErrUnknownScript and leaves the state untouched.
func (s *Sequencer) SelectScript(id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.active.Key == id && id != "" {
		s.mu.Unlock()
		return nil
	}
	sc, ok := s.catalog.Get(id)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w %q", ErrUnknownScript, id)
	}
	from := s.active.Key
	s.abandonLocked()
	s.active = sc
	s.cursor = -1
	s.playing = false
	st := s.changedLocked()
	s.mu.Unlock()

	s.logger.Debug("script selected", zap.String("from", from), zap.String("to", id), zap.Int("steps", len(sc.Steps)))
	s.notify(st)
	return nil
}

// Reset abandons the run in progress and hides all steps of the active script.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.abandonLocked()
	s.cursor = -1
	s.playing = false
	st := s.changedLocked()
	s.mu.Unlock()

	s.notify(st)
}

// Close abandons the run in progress. Later calls to Play and SelectScript
// return ErrClosed.
func (s *Sequencer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.abandonLocked()
	s.playing = false
	st := s.changedLocked()
	s.mu.Unlock()

	s.notify(st)
}

// Play reveals the steps of the active script one by one, waiting for each
// step's delay after revealing it. It blocks until the run completes.
//
// If a run is already in progress Play returns nil immediately and the
// running playback keeps the cursor. If the run is abandoned, Play returns
// ErrAbandoned; if ctx ends first, the run stops and ctx's error is returned.
func (s *Sequencer) Play(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.playing {
		s.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.runID++
	run := s.runID
	s.cancelRun = cancel
	s.playing = true
	s.cursor = -1
	steps := s.active.Steps
	key := s.active.Key
	st := s.changedLocked()
	s.mu.Unlock()

	s.logger.Debug("playback started", zap.String("script", key), zap.Uint64("run", run))
	s.notify(st)

	for i, step := range steps {
		if !s.apply(run, func() { s.cursor = i }) {
			return s.abandoned(key, run)
		}
		s.logger.Debug("step revealed", zap.String("script", key), zap.Int("step", i), zap.Duration("delay", step.Delay()))

		if err := s.wait(runCtx, step.Delay()); err != nil {
			if ctx.Err() == nil {
				return s.abandoned(key, run)
			}
			if !s.apply(run, func() {
				s.playing = false
				s.cancelRun = nil
			}) {
				return s.abandoned(key, run)
			}
			s.logger.Debug("playback interrupted", zap.String("script", key), zap.Uint64("run", run), zap.Error(err))
			return err
		}
	}

	if !s.apply(run, func() {
		s.playing = false
		s.cancelRun = nil
	}) {
		return s.abandoned(key, run)
	}
	s.logger.Debug("playback finished", zap.String("script", key), zap.Uint64("run", run))
	return nil
}

// VisibleSteps returns the revealed steps of the active script in order.
func (s *Sequencer) VisibleSteps() []script.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

// IsStepRunning reports whether a run is in progress with steps still to come.
func (s *Sequencer) IsStepRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing && s.cursor < len(s.active.Steps)-1
}

func (s *Sequencer) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *Sequencer) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *Sequencer) ScriptID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.Key
}

func (s *Sequencer) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// apply runs fn under the lock if run is still the current run.
func (s *Sequencer) apply(run uint64, fn func()) bool {
	s.mu.Lock()
	if run != s.runID || !s.playing {
		s.mu.Unlock()
		return false
	}
	fn()
	st := s.changedLocked()
	s.mu.Unlock()

	s.notify(st)
	return true
}

func (s *Sequencer) abandoned(key string, run uint64) error {
	s.logger.Debug("playback abandoned", zap.String("script", key), zap.Uint64("run", run))
	return ErrAbandoned
}

// abandonLocked invalidates the current run and stops its pending delay.
func (s *Sequencer) abandonLocked() {
	s.runID++
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
}

func (s *Sequencer) wait(ctx context.Context, d time.Duration) error {
	d = time.Duration(float64(d) / s.speed)
	if d <= 0 {
		// Let other goroutines, such as a renderer, observe the step.
		runtime.Gosched()
		return ctx.Err()
	}
	select {
	case <-s.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sequencer) changedLocked() State {
	s.version++
	return s.snapshotLocked()
}

func (s *Sequencer) snapshotLocked() State {
	return State{
		Version:   s.version,
		ScriptID:  s.active.Key,
		Cursor:    s.cursor,
		IsPlaying: s.playing,
		Visible:   s.visibleLocked(),
		Total:     len(s.active.Steps),
	}
}

func (s *Sequencer) visibleLocked() []script.Step {
	if s.cursor < 0 {
		return nil
	}
	return slices.Clone(s.active.Steps[:s.cursor+1])
}

func (s *Sequencer) notify(st State) {
	for _, fn := range s.observers {
		fn(st)
	}
}
