package stopwatch

import (
	"slices"
	"sync"
	"time"
)

// DefaultTickInterval is the nominal period of display refreshes while running.
const DefaultTickInterval = 50 * time.Millisecond

// Listener receives a snapshot after every state-affecting operation and on
// every tick. It is called with the engine lock held: it must return quickly
// and must not call back into the engine.
type Listener func(Snapshot)

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithScheduler replaces the ticker-based scheduler.
func WithScheduler(scheduler Scheduler) Option {
	return func(e *Engine) {
		if scheduler != nil {
			e.scheduler = scheduler
		}
	}
}

// WithListener sets the snapshot listener.
func WithListener(listener Listener) Option {
	return func(e *Engine) {
		e.listener = listener
	}
}

// WithTickInterval overrides DefaultTickInterval. Non-positive values are ignored.
func WithTickInterval(interval time.Duration) Option {
	return func(e *Engine) {
		if interval > 0 {
			e.tickInterval = interval
		}
	}
}

// Engine is a single stopwatch. All methods are safe for concurrent use and
// are applied in the order they acquire the engine lock.
type Engine struct {
	// clock is the time source for every elapsed-time computation.
	clock Clock
	// scheduler drives display refreshes while running.
	scheduler Scheduler
	// listener receives snapshots, may be nil.
	listener Listener
	// tickInterval is the nominal refresh period.
	tickInterval time.Duration

	// mu serialises operations and ticks.
	mu sync.Mutex
	// state is the current run state.
	state RunState
	// startedAt is the clock reference. Zero unless state is Running.
	startedAt time.Time
	// offset is the elapsed time banked by previous running intervals.
	offset time.Duration
	// laps holds the recorded laps.
	laps []string
	// tick is the scheduled refresh. Nil unless state is Running.
	tick Handle
	// generation identifies the current tick; callbacks from older ticks are dropped.
	generation uint64
}

// New creates a stopwatch stopped at zero.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:        SystemClock,
		scheduler:    TickerScheduler{},
		tickInterval: DefaultTickInterval,
		state:        StoppedAtZero,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start starts the stopwatch or resumes it from the accumulated offset.
// It is a no-op while running.
func (e *Engine) Start() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.startLocked()

	return e.snapshotLocked("")
}

// Stop pauses the stopwatch, banking the elapsed time. It is a no-op unless running.
func (e *Engine) Stop() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	return e.snapshotLocked("")
}

// StartStop stops a running stopwatch and starts (or resumes) any other.
func (e *Engine) StartStop() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Running {
		e.stopLocked()
	} else {
		e.startLocked()
	}

	return e.snapshotLocked("")
}

// Record appends the current elapsed time to the laps and reports it in
// Snapshot.Lap. It is a no-op unless running.
func (e *Engine) Record() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Running {
		return e.snapshotLocked("")
	}

	lap := FormatDuration(e.elapsedLocked())
	e.laps = append(e.laps, lap)
	e.publishLocked(lap)

	return e.snapshotLocked(lap)
}

// Reset cancels the refresh tick, clears the laps and returns to zero.
func (e *Engine) Reset() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelTickLocked()

	e.state = StoppedAtZero
	e.startedAt = time.Time{}
	e.offset = 0
	e.laps = nil

	e.publishLocked("")

	return e.snapshotLocked("")
}

// Apply runs the operation bound to cmd.
func (e *Engine) Apply(cmd Command) (Snapshot, error) {
	switch cmd {
	case CommandStartStop:
		return e.StartStop(), nil
	case CommandStart:
		return e.Start(), nil
	case CommandStop:
		return e.Stop(), nil
	case CommandRecord:
		return e.Record(), nil
	case CommandReset:
		return e.Reset(), nil
	default:
		return Snapshot{}, ErrUnknownCommand
	}
}

// Elapsed returns the elapsed time computed from the clock.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.elapsedLocked()
}

// Display returns the formatted elapsed time.
func (e *Engine) Display() string {
	return FormatDuration(e.Elapsed())
}

// State returns the current run state.
func (e *Engine) State() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Laps returns a copy of the recorded laps.
func (e *Engine) Laps() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.laps)
}

// Snapshot returns the current output record without changing anything.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snapshotLocked("")
}

func (e *Engine) startLocked() {
	if e.state == Running {
		return
	}

	e.startedAt = e.clock.Now().Add(-e.offset)
	e.state = Running

	e.generation++
	generation := e.generation
	e.tick = e.scheduler.Every(e.tickInterval, func() {
		e.onTick(generation)
	})

	e.publishLocked("")
}

func (e *Engine) stopLocked() {
	if e.state != Running {
		return
	}

	e.cancelTickLocked()

	e.offset = e.clock.Now().Sub(e.startedAt)
	e.startedAt = time.Time{}
	e.state = Paused

	e.publishLocked("")
}

// cancelTickLocked stops the refresh tick and invalidates callbacks already in flight.
func (e *Engine) cancelTickLocked() {
	if e.tick != nil {
		e.tick.Cancel()
		e.tick = nil
	}

	e.generation++
}

// onTick publishes a running snapshot unless the tick has been superseded.
func (e *Engine) onTick(generation uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Running || generation != e.generation {
		return
	}

	e.publishLocked("")
}

func (e *Engine) elapsedLocked() time.Duration {
	if e.state == Running {
		return e.clock.Now().Sub(e.startedAt)
	}

	return e.offset
}

func (e *Engine) snapshotLocked(lap string) Snapshot {
	elapsed := e.elapsedLocked()

	return Snapshot{
		Elapsed: elapsed,
		Display: FormatDuration(elapsed),
		State:   e.state,
		Laps:    slices.Clone(e.laps),
		Lap:     lap,
	}
}

func (e *Engine) publishLocked(lap string) {
	if e.listener == nil {
		return
	}

	e.listener(e.snapshotLocked(lap))
}
