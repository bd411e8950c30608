package stopwatch

import (
	"slices"
	"time"
)

// RunState is the position of the engine in its state machine.
type RunState int

const (
	// StoppedAtZero is the initial state and the state after a reset.
	StoppedAtZero RunState = iota
	// Running means the clock reference is set and ticks are scheduled.
	Running
	// Paused means elapsed time is frozen in the accumulated offset.
	Paused
)

// String returns a human-readable name of the state.
func (s RunState) String() string {
	switch s {
	case StoppedAtZero:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Tag returns the display-state tag used by presentation layers to pick a style.
// The idle state has an empty tag.
func (s RunState) Tag() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return ""
	}
}

// ParseTag converts a display-state tag back into a RunState.
// Unknown tags map to StoppedAtZero.
func ParseTag(tag string) RunState {
	switch tag {
	case "running":
		return Running
	case "paused":
		return Paused
	default:
		return StoppedAtZero
	}
}

// Snapshot is everything a presentation layer needs to render the stopwatch.
type Snapshot struct {
	// Elapsed is the elapsed time at the moment the snapshot was taken.
	Elapsed time.Duration
	// Display is Elapsed rendered by FormatElapsed.
	Display string
	// State is the run state at the moment the snapshot was taken.
	State RunState
	// Laps holds every recorded lap in recording order.
	Laps []string
	// Lap is the lap appended by the operation that produced this snapshot, if any.
	Lap string
}

// Tag is a shortcut for s.State.Tag().
func (s Snapshot) Tag() string {
	return s.State.Tag()
}

// Clone returns a copy that does not share the laps slice.
func (s Snapshot) Clone() Snapshot {
	s.Laps = slices.Clone(s.Laps)

	return s
}
