// Package common holds helpers shared by several services.
//
// It provides a gRPC client wrapper for the stopwatch server with call
// timeouts and caller identification, and detects the current system actor.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
