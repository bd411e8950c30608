package web

import (
	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
)

// commandFrame is sent by the page. Exactly one of the fields is expected.
type commandFrame struct {
	// Command is a command name such as "start_stop".
	Command string `json:"command,omitempty"`
	// Key is a keyboard key such as "s".
	Key string `json:"key,omitempty"`
}

// resolve returns the command the frame asks for.
// Unbound keys report ok=false without an error, as the page forwards every key press.
func (f commandFrame) resolve() (stopwatch.Command, bool, error) {
	if f.Key != "" {
		cmd, ok := stopwatch.CommandForKey(f.Key)

		return cmd, ok, nil
	}

	cmd, err := stopwatch.ParseCommand(f.Command)
	if err != nil {
		return 0, false, err
	}

	return cmd, true, nil
}

// snapshotFrame is sent to the page after every state change and tick.
type snapshotFrame struct {
	// ElapsedMs is the elapsed time in milliseconds.
	ElapsedMs int64 `json:"elapsed_ms"`
	// Display is the formatted elapsed time.
	Display string `json:"display"`
	// State is the display-state tag used as CSS class.
	State string `json:"state"`
	// Laps is every recorded lap, never null.
	Laps []string `json:"laps"`
	// Lap is the lap appended by the command that produced the frame.
	Lap string `json:"lap,omitempty"`
}

// newSnapshotFrame converts a domain snapshot to its JSON frame.
func newSnapshotFrame(snapshot stopwatch.Snapshot) snapshotFrame {
	laps := snapshot.Laps
	if laps == nil {
		laps = []string{}
	}

	return snapshotFrame{
		ElapsedMs: snapshot.Elapsed.Milliseconds(),
		Display:   snapshot.Display,
		State:     snapshot.Tag(),
		Laps:      laps,
		Lap:       snapshot.Lap,
	}
}

// errorFrame is returned by the JSON endpoints on failure.
type errorFrame struct {
	// Error describes the failure.
	Error string `json:"error"`
}
