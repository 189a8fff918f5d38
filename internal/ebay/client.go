// Package ebay provides an eBay Browse API client abstracted behind
// interfaces for testability.
package ebay

import (
	"context"
)

// SearchRequest defines the parameters for an eBay search.
type SearchRequest struct {
	Query string
	Limit int
	// Sold selects historical sold items instead of live listings.
	Sold bool
	// Marketplace-specific extras, merged into the filter expression.
	Filters []string
}

// SearchResponse holds the results of an eBay search.
type SearchResponse struct {
	Items   []ItemSummary
	Total   int
	HasMore bool
}

// Client defines the interface for interacting with the eBay API.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// TokenProvider defines the interface for obtaining OAuth2 tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
