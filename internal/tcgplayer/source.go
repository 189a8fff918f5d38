package tcgplayer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/flipradar-io/flipradar/internal/cache"
	"github.com/flipradar-io/flipradar/internal/metrics"
	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// Source adapts a Client into the catalog source consumed by the
// opportunity pipeline, with an optional read-through cache over
// both lookups.
type Source struct {
	client Client
	cache  cache.Cache
}

// NewSource creates a Source. A nil cache disables caching.
func NewSource(client Client, c cache.Cache) *Source {
	return &Source{client: client, cache: c}
}

// Lookup finds structured card references matching the query within
// the game's catalog category.
func (s *Source) Lookup(ctx context.Context, game domain.Game, query string, limit int) ([]domain.CardReference, error) {
	key := cache.Key("tcg", "catalog", string(game), query, strconv.Itoa(limit))

	if s.cache != nil {
		var cached []domain.CardReference
		found, err := s.cache.Get(ctx, key, &cached)
		if err == nil && found {
			metrics.CacheHitsTotal.WithLabelValues("tcg_catalog").Inc()
			return cached, nil
		}
		metrics.CacheMissesTotal.WithLabelValues("tcg_catalog").Inc()
	}

	products, err := s.client.SearchProducts(ctx, game, query, limit)
	if err != nil {
		return nil, fmt.Errorf("looking up catalog products: %w", err)
	}

	refs := make([]domain.CardReference, 0, len(products))
	for _, p := range products {
		refs = append(refs, p.Reference(game))
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, refs)
	}

	return refs, nil
}

// MarketPrice returns the market price for the product's Normal
// printing, falling back to the first variant with a market price.
// Returns nil when no variant has one.
func (s *Source) MarketPrice(ctx context.Context, productID int) (*float64, error) {
	key := cache.Key("tcg", "prices", strconv.Itoa(productID))

	if s.cache != nil {
		var cached []PriceRow
		found, err := s.cache.Get(ctx, key, &cached)
		if err == nil && found {
			metrics.CacheHitsTotal.WithLabelValues("tcg_prices").Inc()
			return selectMarketPrice(cached), nil
		}
		metrics.CacheMissesTotal.WithLabelValues("tcg_prices").Inc()
	}

	rows, err := s.client.ProductPrices(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("fetching market price: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rows)
	}

	return selectMarketPrice(rows), nil
}

func selectMarketPrice(rows []PriceRow) *float64 {
	var fallback *float64
	for _, r := range rows {
		if r.MarketPrice == nil || *r.MarketPrice <= 0 {
			continue
		}
		if strings.EqualFold(r.SubTypeName, "Normal") {
			return r.MarketPrice
		}
		if fallback == nil {
			fallback = r.MarketPrice
		}
	}
	return fallback
}
