// Package web serves the browser stopwatch.
//
// The page is embedded in the binary. It opens a WebSocket to /ws, renders
// every snapshot frame it receives and sends clicks and the s, t and r keys
// back as command frames. Small JSON endpoints under /api offer the same
// operations without a WebSocket.
package web
