// Package logger wraps zap for the stopwatch binaries.
//
// It keeps one global sugared logger with a console encoder, lets services
// carry a named or annotated logger in their context (ToContext, FromContext,
// WithName, WithKV) and offers leveled helpers such as InfoKV and ErrorKV.
package logger
