package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	t.Parallel()

	m := NewMemory(time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "greeting", "hello"))

	var got string
	found, err := m.Get(ctx, "greeting", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", got)
}

func TestMemory_Miss(t *testing.T) {
	t.Parallel()

	m := NewMemory(time.Hour)

	var got string
	found, err := m.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_ExpiryIsLazy(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	m := NewMemory(30*time.Minute, WithNowFunc(clock))
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", 42))

	var got int
	found, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, got)

	// Just before expiry the entry is still live.
	advance(30*time.Minute - time.Second)
	found, err = m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)

	// At/after expiry the read behaves as a miss and evicts the entry.
	advance(2 * time.Second)
	found, err = m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, m.Len(), "expired entry must be evicted on read")
}

func TestMemory_OverwriteRefreshesTTL(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	m := NewMemory(time.Minute, WithNowFunc(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v1"))
	now = now.Add(50 * time.Second)
	require.NoError(t, m.Set(ctx, "k", "v2"))
	now = now.Add(30 * time.Second)

	var got string
	found, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", got)
}

func TestMemory_StructRoundTrip(t *testing.T) {
	t.Parallel()

	type payload struct {
		Query string   `json:"query"`
		Count int      `json:"count"`
		Tags  []string `json:"tags"`
	}

	m := NewMemory(time.Hour)
	ctx := context.Background()

	in := payload{Query: "charizard", Count: 3, Tags: []string{"live", "sold"}}
	require.NoError(t, m.Set(ctx, "p", in))

	var out payload
	found, err := m.Get(ctx, "p", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	m := NewMemory(time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := Key("worker", string(rune('a'+n)))
			for range 100 {
				_ = m.Set(ctx, key, n)
				var got int
				_, _ = m.Get(ctx, key, &got)
			}
		}(i)
	}
	wg.Wait()
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ebay:live:charizard", Key("ebay", "live", "Charizard"))
}
