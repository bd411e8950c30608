package v1

// Keys of the snapshot Struct.
const (
	// FieldElapsedMs is the elapsed time in whole milliseconds (number).
	FieldElapsedMs = "elapsed_ms"
	// FieldDisplay is the formatted elapsed time (string).
	FieldDisplay = "display"
	// FieldState is the display-state tag: "", "running" or "paused" (string).
	FieldState = "state"
	// FieldLaps is the list of recorded laps (list of strings).
	FieldLaps = "laps"
	// FieldLap is the lap appended by the call that returned the snapshot (string).
	FieldLap = "lap"
)

// Metadata keys identifying the caller.
const (
	// MetadataHostname carries the caller hostname.
	MetadataHostname = "x-stopwatch-hostname"
	// MetadataUsername carries the caller username.
	MetadataUsername = "x-stopwatch-username"
)
