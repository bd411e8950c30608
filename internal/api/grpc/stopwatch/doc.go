// Package stopwatch implements the gRPC transport for the stopwatch service.
//
// It adapts domain snapshots to protobuf Struct messages, reads the calling
// actor from request metadata and forwards commands to a business-service
// interface. Watch streams every snapshot the service publishes.
package stopwatch
