package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpNotifier(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	n := NewNoOpNotifier(logger)

	alert := testAlert(11.90)
	require.NoError(t, n.SendAlert(context.Background(), &alert))
	assert.Contains(t, buf.String(), "notification discarded")

	buf.Reset()
	require.NoError(t, n.SendBatchAlert(context.Background(), []AlertPayload{alert}, "base set charizard"))
	assert.Contains(t, buf.String(), "count=1")
}
