// Package config defines the settings shared by the stopwatch binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Config holds the gRPC address, the address of the web page and its
// WebSocket endpoint, the display refresh interval, the RPC timeout and the
// log level.
package config
