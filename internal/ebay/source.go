package ebay

import (
	"context"
	"fmt"
	"strconv"

	"github.com/flipradar-io/flipradar/internal/cache"
	"github.com/flipradar-io/flipradar/internal/metrics"
	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// Source adapts a Client into the listing source consumed by the
// opportunity pipeline, with an optional read-through cache so
// repeated scans of the same query avoid redundant API calls.
type Source struct {
	client Client
	cache  cache.Cache
}

// NewSource creates a Source. A nil cache disables caching.
func NewSource(client Client, c cache.Cache) *Source {
	return &Source{client: client, cache: c}
}

// Search fetches listings for the query, serving from cache when a
// live entry exists.
func (s *Source) Search(ctx context.Context, query string, limit int, sold bool) ([]domain.Listing, error) {
	class := "live"
	if sold {
		class = "sold"
	}
	key := cache.Key("ebay", class, query, strconv.Itoa(limit))

	if s.cache != nil {
		var cached []domain.Listing
		found, err := s.cache.Get(ctx, key, &cached)
		if err == nil && found {
			metrics.CacheHitsTotal.WithLabelValues("ebay_" + class).Inc()
			return cached, nil
		}
		metrics.CacheMissesTotal.WithLabelValues("ebay_" + class).Inc()
	}

	resp, err := s.client.Search(ctx, SearchRequest{
		Query: query,
		Limit: limit,
		Sold:  sold,
	})
	if err != nil {
		return nil, fmt.Errorf("searching eBay (%s): %w", class, err)
	}

	listings := ToListings(resp.Items)

	if s.cache != nil {
		// Cache write failures are not fatal: the result is still good.
		_ = s.cache.Set(ctx, key, listings)
	}

	return listings, nil
}
