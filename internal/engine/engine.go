// Package engine runs configured watches on a schedule and sends
// alerts for newly found opportunities.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/flipradar-io/flipradar/internal/metrics"
	"github.com/flipradar-io/flipradar/internal/notify"
	"github.com/flipradar-io/flipradar/internal/pipeline"
	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// Watch is one saved search scanned on every cycle.
type Watch struct {
	Name  string
	Game  domain.Game
	Query string
	// Mode selects the scan: "text" (default) or "catalog".
	Mode string
}

// Scanner runs opportunity scans. Implemented by pipeline.Pipeline.
type Scanner interface {
	RunTextSearch(ctx context.Context, game domain.Game, query string) (*pipeline.Result, error)
	RunCatalog(ctx context.Context, game domain.Game, query string) (*pipeline.Result, error)
}

// Engine orchestrates watch scans and alerting.
type Engine struct {
	scanner  Scanner
	notifier notify.Notifier
	watches  []Watch
	log      *slog.Logger

	staggerOffset time.Duration

	// Alerted listings, keyed by watch and item URL, so each
	// opportunity is announced once per process lifetime.
	mu      sync.Mutex
	alerted map[string]struct{}
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithStaggerOffset sets the delay between processing each watch.
func WithStaggerOffset(d time.Duration) Option {
	return func(e *Engine) {
		e.staggerOffset = d
	}
}

// New creates an Engine scanning the given watches.
func New(s Scanner, n notify.Notifier, watches []Watch, opts ...Option) *Engine {
	e := &Engine{
		scanner:       s,
		notifier:      n,
		watches:       watches,
		log:           slog.Default(),
		staggerOffset: 30 * time.Second,
		alerted:       make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunWatches scans every configured watch once, alerting on
// opportunities not seen before. Individual watch failures are logged
// and do not stop the cycle.
func (e *Engine) RunWatches(ctx context.Context) error {
	for i := range e.watches {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		w := &e.watches[i]
		e.log.Info("processing watch", "name", w.Name, "mode", w.Mode)

		if err := e.runWatch(ctx, w); err != nil {
			e.log.Error("watch scan failed", "watch", w.Name, "error", err)
			metrics.WatchErrorsTotal.Inc()
		}

		// Stagger API traffic between watches.
		if i < len(e.watches)-1 && e.staggerOffset > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.staggerOffset):
			}
		}
	}
	return nil
}

func (e *Engine) runWatch(ctx context.Context, w *Watch) error {
	metrics.WatchRunsTotal.Inc()

	var (
		res *pipeline.Result
		err error
	)
	if w.Mode == "catalog" {
		res, err = e.scanner.RunCatalog(ctx, w.Game, w.Query)
	} else {
		res, err = e.scanner.RunTextSearch(ctx, w.Game, w.Query)
	}
	if err != nil {
		return fmt.Errorf("scanning watch %q: %w", w.Name, err)
	}

	fresh := e.filterNew(w.Name, res.Opportunities)
	if len(fresh) == 0 {
		e.log.Info("no new opportunities", "watch", w.Name, "found", len(res.Opportunities))
		return nil
	}

	alerts := make([]notify.AlertPayload, 0, len(fresh))
	for i := range fresh {
		alerts = append(alerts, notify.AlertPayload{
			WatchName:   w.Name,
			Game:        w.Game,
			Query:       w.Query,
			Opportunity: fresh[i],
		})
	}

	if err := e.notifier.SendBatchAlert(ctx, alerts, w.Name); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("sending alerts for watch %q: %w", w.Name, err)
	}

	// Only a delivered alert counts as seen, so a notifier outage
	// leaves the opportunities eligible for the next cycle.
	e.markAlerted(w.Name, fresh)

	e.log.Info("alerts sent", "watch", w.Name, "count", len(alerts))
	return nil
}

// filterNew returns the opportunities not yet alerted for this watch.
func (e *Engine) filterNew(watchName string, opps []domain.Opportunity) []domain.Opportunity {
	e.mu.Lock()
	defer e.mu.Unlock()

	var fresh []domain.Opportunity
	for i := range opps {
		if _, seen := e.alerted[alertKey(watchName, opps[i])]; seen {
			continue
		}
		fresh = append(fresh, opps[i])
	}
	return fresh
}

func (e *Engine) markAlerted(watchName string, opps []domain.Opportunity) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range opps {
		e.alerted[alertKey(watchName, opps[i])] = struct{}{}
	}
}

func alertKey(watchName string, opp domain.Opportunity) string {
	return watchName + "|" + opp.Listing.ItemURL
}
