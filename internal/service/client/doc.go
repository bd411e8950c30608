// Package client implements stopwatch-ctl: it sends commands to a running
// stopwatch server, prints snapshots and follows the live display.
package client
