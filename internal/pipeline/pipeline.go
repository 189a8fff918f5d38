// Package pipeline orchestrates the end-to-end opportunity scan:
// fetching listings, scoring matches, summarizing comps, applying
// economics and thresholds, and ranking the survivors.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flipradar-io/flipradar/internal/metrics"
	"github.com/flipradar-io/flipradar/pkg/economics"
	"github.com/flipradar-io/flipradar/pkg/matcher"
	"github.com/flipradar-io/flipradar/pkg/pricestats"
	"github.com/flipradar-io/flipradar/pkg/rank"
	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// Validation errors.
var (
	ErrEmptyQuery  = errors.New("query must not be empty")
	ErrInvalidGame = errors.New("game must be 'pokemon' or 'mtg'")
)

// ListingSource provides marketplace listings, live or sold.
type ListingSource interface {
	Search(ctx context.Context, query string, limit int, sold bool) ([]domain.Listing, error)
}

// CatalogSource provides structured card references and disposal
// prices from a catalog marketplace.
type CatalogSource interface {
	Lookup(ctx context.Context, game domain.Game, query string, limit int) ([]domain.CardReference, error)
	MarketPrice(ctx context.Context, productID int) (*float64, error)
}

// Thresholds are the gates an opportunity must clear.
type Thresholds struct {
	MinConfidence float64 `json:"min_confidence"`
	MinDiscount   float64 `json:"min_discount"`
	MinProfit     float64 `json:"min_profit"`
	MinROI        float64 `json:"min_roi"`
}

// DefaultThresholds returns the standard gate values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinConfidence: 0.55,
		MinDiscount:   0.25,
		MinProfit:     5.00,
		MinROI:        0.10,
	}
}

// Result is the outcome of one scan.
type Result struct {
	Game        domain.Game `json:"game"`
	Query       string      `json:"query"`
	MarketQuery string      `json:"market_query"`

	// Catalog mode only.
	Reference    *domain.CardReference `json:"reference,omitempty"`
	CatalogPrice *float64              `json:"catalog_price,omitempty"`

	// Text-search mode only.
	SoldStats     domain.PriceStatistics `json:"sold_stats"`
	SoldCompsUsed int                    `json:"sold_comps_used"`

	Opportunities []domain.Opportunity `json:"opportunities"`
	Thresholds    Thresholds           `json:"thresholds"`
}

// Pipeline runs opportunity scans against configured sources.
type Pipeline struct {
	listings ListingSource
	catalog  CatalogSource

	assumptions economics.Assumptions
	thresholds  Thresholds

	liveLimit    int
	soldLimit    int
	catalogLimit int

	queryMatcher      *matcher.QueryMatcher
	structuredMatcher *matcher.StructuredMatcher

	logger *slog.Logger
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithAssumptions overrides the default economics assumptions.
func WithAssumptions(a economics.Assumptions) Option {
	return func(p *Pipeline) {
		p.assumptions = a
	}
}

// WithThresholds overrides the default opportunity gates.
func WithThresholds(t Thresholds) Option {
	return func(p *Pipeline) {
		p.thresholds = t
	}
}

// WithLimits overrides the live and sold fetch limits.
func WithLimits(live, sold int) Option {
	return func(p *Pipeline) {
		if live > 0 {
			p.liveLimit = live
		}
		if sold > 0 {
			p.soldLimit = sold
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a Pipeline. The catalog source may be nil, in which
// case catalog scans return an error.
func New(listings ListingSource, catalog CatalogSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		listings:          listings,
		catalog:           catalog,
		assumptions:       economics.DefaultAssumptions(),
		thresholds:        DefaultThresholds(),
		liveLimit:         30,
		soldLimit:         60,
		catalogLimit:      20,
		queryMatcher:      matcher.NewQueryMatcher(matcher.DefaultDenylist()),
		structuredMatcher: matcher.NewStructuredMatcher(matcher.StructuredDenylist()),
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BuildMarketQuery appends game context terms to a raw query so the
// marketplace search stays on-topic.
func BuildMarketQuery(game domain.Game, query string) string {
	switch game {
	case domain.GamePokemon:
		return query + " pokemon card"
	case domain.GameMTG:
		return query + " magic the gathering card"
	default:
		return query
	}
}

// RunTextSearch scans for underpriced live listings of the queried
// card, using confident sold comps as the price baseline. An empty
// result is not an error: it means no listing cleared the gates.
func (p *Pipeline) RunTextSearch(ctx context.Context, game domain.Game, query string) (*Result, error) {
	const mode = "text"

	if err := validate(game, query); err != nil {
		return nil, err
	}

	start := time.Now()
	metrics.ScansTotal.WithLabelValues(mode).Inc()
	defer func() {
		metrics.ScanDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	marketQuery := BuildMarketQuery(game, query)

	var live, sold []domain.Listing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		live, err = p.listings.Search(gctx, marketQuery, p.liveLimit, false)
		if err != nil {
			return fmt.Errorf("fetching live listings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sold, err = p.listings.Search(gctx, marketQuery, p.soldLimit, true)
		if err != nil {
			return fmt.Errorf("fetching sold comps: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.ScanErrorsTotal.WithLabelValues(mode).Inc()
		return nil, err
	}

	// Only sold listings that confidently match the query feed the
	// price baseline.
	soldPrices := make([]float64, 0, len(sold))
	for i := range sold {
		if sold[i].Price <= 0 {
			continue
		}
		m := p.queryMatcher.Score(query, sold[i].Title)
		if m.Confidence < p.thresholds.MinConfidence {
			continue
		}
		soldPrices = append(soldPrices, sold[i].Price)
	}

	result := &Result{
		Game:          game,
		Query:         query,
		MarketQuery:   marketQuery,
		SoldStats:     pricestats.SummarizeValues(soldPrices),
		SoldCompsUsed: len(soldPrices),
		Opportunities: []domain.Opportunity{},
		Thresholds:    p.thresholds,
	}

	if result.SoldStats.Median == nil {
		p.logger.Info("no sold comps cleared confidence gate",
			"game", game, "query", query, "sold_fetched", len(sold))
		metrics.OpportunitiesFound.WithLabelValues(mode).Observe(0)
		return result, nil
	}
	median := *result.SoldStats.Median

	var opps []domain.Opportunity
	for i := range live {
		l := live[i]
		if l.Price <= 0 {
			continue
		}

		m := p.queryMatcher.Score(query, l.Title)
		if m.Confidence < p.thresholds.MinConfidence {
			continue
		}

		total := l.TotalCost(p.assumptions.DefaultShipping)
		discount := 1.0 - total/median
		if discount < p.thresholds.MinDiscount {
			continue
		}

		econ := p.assumptions.SellAtSoldMedian(l.Price, median, l.ShippingCost)
		if econ.Profit < p.thresholds.MinProfit {
			continue
		}

		opps = append(opps, domain.Opportunity{
			Listing:   l,
			Match:     m,
			Economics: econ,
			Discount:  discount,
		})
	}

	result.Opportunities = rank.Rank(opps, rank.DiscountMultiplier)

	p.logger.Info("text scan complete",
		"game", game,
		"query", query,
		"sold_comps_used", result.SoldCompsUsed,
		"sold_median", median,
		"opportunities", len(result.Opportunities),
		"duration", time.Since(start),
	)
	metrics.OpportunitiesFound.WithLabelValues(mode).Observe(float64(len(result.Opportunities)))

	return result, nil
}

// RunCatalog scans for live listings that can be flipped onto the
// catalog marketplace at its market price. The best catalog match for
// the query anchors the structured matching and the disposal price.
func (p *Pipeline) RunCatalog(ctx context.Context, game domain.Game, query string) (*Result, error) {
	const mode = "catalog"

	if err := validate(game, query); err != nil {
		return nil, err
	}
	if p.catalog == nil {
		return nil, errors.New("no catalog source configured")
	}

	start := time.Now()
	metrics.ScansTotal.WithLabelValues(mode).Inc()
	defer func() {
		metrics.ScanDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	result := &Result{
		Game:          game,
		Query:         query,
		Opportunities: []domain.Opportunity{},
		Thresholds:    p.thresholds,
	}

	refs, err := p.catalog.Lookup(ctx, game, query, p.catalogLimit)
	if err != nil {
		metrics.ScanErrorsTotal.WithLabelValues(mode).Inc()
		return nil, fmt.Errorf("looking up catalog: %w", err)
	}
	if len(refs) == 0 {
		p.logger.Info("no catalog products found", "game", game, "query", query)
		metrics.OpportunitiesFound.WithLabelValues(mode).Observe(0)
		return result, nil
	}

	// The first catalog hit is the anchor product.
	ref := refs[0]
	result.Reference = &ref

	disposal, err := p.catalog.MarketPrice(ctx, ref.ProductID)
	if err != nil {
		metrics.ScanErrorsTotal.WithLabelValues(mode).Inc()
		return nil, fmt.Errorf("fetching disposal price: %w", err)
	}
	if disposal == nil {
		p.logger.Info("catalog product has no market price",
			"game", game, "query", query, "product_id", ref.ProductID)
		metrics.OpportunitiesFound.WithLabelValues(mode).Observe(0)
		return result, nil
	}
	result.CatalogPrice = disposal

	result.MarketQuery = BuildMarketQuery(game, ref.Name)
	live, err := p.listings.Search(ctx, result.MarketQuery, p.liveLimit, false)
	if err != nil {
		metrics.ScanErrorsTotal.WithLabelValues(mode).Inc()
		return nil, fmt.Errorf("fetching live listings: %w", err)
	}

	var opps []domain.Opportunity
	for i := range live {
		l := live[i]
		if l.Price <= 0 {
			continue
		}

		m := p.structuredMatcher.Score(ref, l.Title)
		if m.Confidence < p.thresholds.MinConfidence {
			continue
		}

		econ := p.assumptions.SellOnCatalog(l.Price, *disposal, l.ShippingCost)
		if econ.ROI == nil || *econ.ROI < p.thresholds.MinROI {
			continue
		}
		if econ.Profit < p.thresholds.MinProfit {
			continue
		}

		opps = append(opps, domain.Opportunity{
			Listing:   l,
			Match:     m,
			Economics: econ,
		})
	}

	result.Opportunities = rank.Rank(opps, rank.UnitMultiplier)

	p.logger.Info("catalog scan complete",
		"game", game,
		"query", query,
		"product_id", ref.ProductID,
		"catalog_price", *disposal,
		"opportunities", len(result.Opportunities),
		"duration", time.Since(start),
	)
	metrics.OpportunitiesFound.WithLabelValues(mode).Observe(float64(len(result.Opportunities)))

	return result, nil
}

func validate(game domain.Game, query string) error {
	if !game.Valid() {
		return ErrInvalidGame
	}
	if query == "" {
		return ErrEmptyQuery
	}
	return nil
}
