// Package metrics exposes Prometheus collectors for the stopwatch server.
package metrics
