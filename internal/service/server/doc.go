// Package server runs the stopwatch server: the single engine of the process,
// the gRPC API, the browser page with its WebSocket, and the metrics endpoint.
package server
