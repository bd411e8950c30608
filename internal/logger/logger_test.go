package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestContextHelpers checks that names and fields attached to the context reach the output.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := ToContext(context.Background(), NewWithWriter(&buf, zapcore.DebugLevel))
	ctx = WithName(ctx, "stopwatch-server")
	ctx = WithKV(ctx, "session_id", "abc")

	InfoKV(ctx, "Command applied", "command", "start_stop")

	out := buf.String()
	require.Contains(t, out, "stopwatch-server")
	require.Contains(t, out, "Command applied")
	require.Contains(t, out, `"session_id": "abc"`)
	require.Contains(t, out, `"command": "start_stop"`)
}

// TestSetLevel checks the shared level is applied and reported.
//
//nolint:paralleltest // Changes the level of the global logger.
func TestSetLevel(t *testing.T) {
	previous := Level()
	t.Cleanup(func() { SetLevel(previous) })

	SetLevel(zapcore.WarnLevel)
	require.Equal(t, zapcore.WarnLevel, Level())
	require.False(t, Logger().Desugar().Core().Enabled(zapcore.InfoLevel))
}
