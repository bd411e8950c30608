// Package stopwatch contains the stopwatch engine: the run-state machine,
// elapsed-time arithmetic and the display format.
//
// The engine never counts ticks. Elapsed time is always derived from the
// injected Clock, while the injected Scheduler only decides how often a fresh
// Snapshot is pushed to the Listener. Input adapters translate keys and
// command names into Command values and apply them through Engine.Apply.
package stopwatch
