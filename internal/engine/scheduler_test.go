package engine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/flipradar-io/flipradar/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine() *Engine {
	return New(
		&stubScanner{result: resultWith()},
		&stubNotifier{},
		[]Watch{{Name: "chz", Game: domain.GamePokemon, Query: "charizard"}},
		WithStaggerOffset(0),
		WithLogger(quietLogger()),
	)
}

func TestNewScheduler_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(newTestEngine(), 15*time.Minute, quietLogger())
	require.NoError(t, err)

	assert.Len(t, sched.Entries(), 1)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(newTestEngine(), time.Hour, quietLogger())
	require.NoError(t, err)

	sched.Start()

	stopCtx := sched.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}
