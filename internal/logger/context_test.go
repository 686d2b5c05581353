package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContextDefaultsWhenUnset(t *testing.T) {
	got := FromContext(context.Background())
	require.NotNil(t, got)
}

func TestAddToContextRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := AddToContext(context.Background(), l)
	got := FromContext(ctx)

	got.Info("hello")
	require.Contains(t, buf.String(), "hello")
}
