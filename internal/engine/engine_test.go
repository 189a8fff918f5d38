package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipradar-io/flipradar/internal/notify"
	"github.com/flipradar-io/flipradar/internal/pipeline"
	domain "github.com/flipradar-io/flipradar/pkg/types"
)

type stubScanner struct {
	mu           sync.Mutex
	textCalls    int
	catalogCalls int
	result       *pipeline.Result
	err          error
}

func (s *stubScanner) RunTextSearch(_ context.Context, _ domain.Game, _ string) (*pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textCalls++
	return s.result, s.err
}

func (s *stubScanner) RunCatalog(_ context.Context, _ domain.Game, _ string) (*pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogCalls++
	return s.result, s.err
}

type stubNotifier struct {
	mu      sync.Mutex
	batches [][]notify.AlertPayload
	err     error
}

func (n *stubNotifier) SendAlert(_ context.Context, alert *notify.AlertPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.batches = append(n.batches, []notify.AlertPayload{*alert})
	return n.err
}

func (n *stubNotifier) SendBatchAlert(_ context.Context, alerts []notify.AlertPayload, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.batches = append(n.batches, alerts)
	return n.err
}

func resultWith(urls ...string) *pipeline.Result {
	opps := make([]domain.Opportunity, 0, len(urls))
	for _, u := range urls {
		opps = append(opps, domain.Opportunity{
			Listing:   domain.Listing{Title: "Charizard Holo", ItemURL: u, Price: 20},
			Economics: domain.EconomicsResult{Profit: 11.90},
			Score:     9.52,
		})
	}
	return &pipeline.Result{Opportunities: opps}
}

func TestEngine_RunWatches_SendsAlerts(t *testing.T) {
	t.Parallel()

	scanner := &stubScanner{result: resultWith("https://ebay.com/itm/1", "https://ebay.com/itm/2")}
	notifier := &stubNotifier{}

	eng := New(scanner, notifier, []Watch{
		{Name: "chz", Game: domain.GamePokemon, Query: "charizard"},
	}, WithStaggerOffset(0))

	require.NoError(t, eng.RunWatches(context.Background()))

	assert.Equal(t, 1, scanner.textCalls)
	require.Len(t, notifier.batches, 1)
	require.Len(t, notifier.batches[0], 2)
	assert.Equal(t, "chz", notifier.batches[0][0].WatchName)
	assert.Equal(t, domain.GamePokemon, notifier.batches[0][0].Game)
}

func TestEngine_RunWatches_DeduplicatesAcrossCycles(t *testing.T) {
	t.Parallel()

	scanner := &stubScanner{result: resultWith("https://ebay.com/itm/1")}
	notifier := &stubNotifier{}

	eng := New(scanner, notifier, []Watch{
		{Name: "chz", Game: domain.GamePokemon, Query: "charizard"},
	}, WithStaggerOffset(0))

	require.NoError(t, eng.RunWatches(context.Background()))
	require.NoError(t, eng.RunWatches(context.Background()))

	assert.Equal(t, 2, scanner.textCalls)
	// The second cycle finds the same listing and stays quiet.
	assert.Len(t, notifier.batches, 1)
}

func TestEngine_RunWatches_RetriesAfterNotifyFailure(t *testing.T) {
	t.Parallel()

	scanner := &stubScanner{result: resultWith("https://ebay.com/itm/1")}
	notifier := &stubNotifier{err: errors.New("discord rate limited")}

	eng := New(scanner, notifier, []Watch{
		{Name: "chz", Game: domain.GamePokemon, Query: "charizard"},
	}, WithStaggerOffset(0))

	require.NoError(t, eng.RunWatches(context.Background()))
	require.Len(t, notifier.batches, 1)

	// The failed alert is not swallowed: the next cycle resends it.
	notifier.err = nil
	require.NoError(t, eng.RunWatches(context.Background()))
	require.Len(t, notifier.batches, 2)
	assert.Equal(t, "https://ebay.com/itm/1", notifier.batches[1][0].Opportunity.Listing.ItemURL)

	// Once delivered, it stays delivered.
	require.NoError(t, eng.RunWatches(context.Background()))
	assert.Len(t, notifier.batches, 2)
}

func TestEngine_RunWatches_CatalogMode(t *testing.T) {
	t.Parallel()

	scanner := &stubScanner{result: resultWith()}
	notifier := &stubNotifier{}

	eng := New(scanner, notifier, []Watch{
		{Name: "chz", Game: domain.GamePokemon, Query: "charizard", Mode: "catalog"},
	}, WithStaggerOffset(0))

	require.NoError(t, eng.RunWatches(context.Background()))

	assert.Equal(t, 1, scanner.catalogCalls)
	assert.Equal(t, 0, scanner.textCalls)
	assert.Empty(t, notifier.batches)
}

func TestEngine_RunWatches_ContinuesAfterScanFailure(t *testing.T) {
	t.Parallel()

	failing := &stubScanner{err: errors.New("ebay down")}
	notifier := &stubNotifier{}

	eng := New(failing, notifier, []Watch{
		{Name: "a", Game: domain.GamePokemon, Query: "charizard"},
		{Name: "b", Game: domain.GameMTG, Query: "black lotus"},
	}, WithStaggerOffset(0))

	require.NoError(t, eng.RunWatches(context.Background()))

	// Both watches were attempted despite failures.
	assert.Equal(t, 2, failing.textCalls)
	assert.Empty(t, notifier.batches)
}

func TestEngine_RunWatches_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := New(&stubScanner{result: resultWith()}, &stubNotifier{}, []Watch{
		{Name: "chz", Game: domain.GamePokemon, Query: "charizard"},
	}, WithStaggerOffset(0))

	err := eng.RunWatches(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
