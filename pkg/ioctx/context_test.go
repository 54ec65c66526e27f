package ioctx

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, io.Discard, StdoutFromContext(ctx))
	require.Equal(t, io.Discard, StderrFromContext(ctx))
	require.Same(t, slog.Default(), LoggerFromContext(ctx))
}

func TestRoundTrip(t *testing.T) {
	var stdout, stderr, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	ctx := StdoutToContext(context.Background(), &stdout)
	ctx = StderrToContext(ctx, &stderr)
	ctx = LoggerToContext(ctx, logger)

	require.Same(t, &stdout, StdoutFromContext(ctx))
	require.Same(t, &stderr, StderrFromContext(ctx))
	require.Same(t, logger, LoggerFromContext(ctx))

	LoggerFromContext(ctx).Info("hello")
	require.Contains(t, logs.String(), "msg=hello")
}
