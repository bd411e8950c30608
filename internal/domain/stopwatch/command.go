package stopwatch

import (
	"errors"
	"strings"
)

// Command is a logical input, independent of the key or control that produced it.
type Command int

const (
	// CommandStartStop starts a stopped stopwatch and stops a running one.
	CommandStartStop Command = iota + 1
	// CommandStart starts or resumes.
	CommandStart
	// CommandStop pauses.
	CommandStop
	// CommandRecord records a lap.
	CommandRecord
	// CommandReset returns to zero and clears the laps.
	CommandReset
)

var (
	// ErrUnknownCommand is returned for command names and values with no operation bound.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrClosed is returned by owners of a stopwatch that no longer accept commands.
	ErrClosed = errors.New("stopwatch is closed")
)

// String returns the wire name of the command.
func (c Command) String() string {
	switch c {
	case CommandStartStop:
		return "start_stop"
	case CommandStart:
		return "start"
	case CommandStop:
		return "stop"
	case CommandRecord:
		return "record"
	case CommandReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ParseCommand converts a wire name into a Command.
// Dashes are accepted in place of underscores.
func ParseCommand(s string) (Command, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")

	switch name {
	case "start_stop", "toggle":
		return CommandStartStop, nil
	case "start":
		return CommandStart, nil
	case "stop":
		return CommandStop, nil
	case "record", "lap":
		return CommandRecord, nil
	case "reset":
		return CommandReset, nil
	default:
		return 0, ErrUnknownCommand
	}
}

// CommandForKey maps keyboard shortcuts to commands:
// "s" is start/stop, "t" records a time and "r" resets.
func CommandForKey(key string) (Command, bool) {
	switch key {
	case "s":
		return CommandStartStop, true
	case "t":
		return CommandRecord, true
	case "r":
		return CommandReset, true
	default:
		return 0, false
	}
}
