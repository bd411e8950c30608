// Package tui is the terminal presentation of the stopwatch.
//
// It renders the display, the run state and the lap list with bubbletea and
// lipgloss, and maps the s, t and r keys to commands. The stopwatch is either
// a local engine or a remote server followed over gRPC.
package tui
