// Package tcgplayer provides a TCGplayer catalog and pricing client
// used as the structured card source for catalog scans.
package tcgplayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/flipradar-io/flipradar/internal/metrics"
	domain "github.com/flipradar-io/flipradar/pkg/types"
)

const (
	defaultAPIBase = "https://api.tcgplayer.com"
	maxPageSize    = 50
)

// ErrUnknownGame is returned when a game has no TCGplayer category.
var ErrUnknownGame = errors.New("game must be 'pokemon' or 'mtg'")

// categoryIDs maps supported games to TCGplayer catalog categories.
var categoryIDs = map[domain.Game]int{
	domain.GameMTG:     1,
	domain.GamePokemon: 3,
}

// TokenProvider supplies bearer tokens for TCGplayer API calls.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Product is one catalog product with its extended card attributes
// flattened out of TCGplayer's extendedData list.
type Product struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url,omitempty"`
	SetName   string `json:"set_name,omitempty"`
	Number    string `json:"number,omitempty"`
	Rarity    string `json:"rarity,omitempty"`
}

// Reference converts the product into a structured card identity.
func (p Product) Reference(game domain.Game) domain.CardReference {
	return domain.CardReference{
		Game:      game,
		ProductID: p.ProductID,
		Name:      p.Name,
		SetName:   p.SetName,
		Number:    p.Number,
		Rarity:    p.Rarity,
		ImageURL:  p.ImageURL,
	}
}

// PriceRow is one pricing row for a product printing variant.
type PriceRow struct {
	SubTypeName    string   `json:"subTypeName"`
	MarketPrice    *float64 `json:"marketPrice"`
	LowPrice       *float64 `json:"lowPrice"`
	MidPrice       *float64 `json:"midPrice"`
	HighPrice      *float64 `json:"highPrice"`
	DirectLowPrice *float64 `json:"directLowPrice"`
}

// Client is the TCGplayer API surface consumed by the catalog source.
type Client interface {
	SearchProducts(ctx context.Context, game domain.Game, query string, limit int) ([]Product, error)
	ProductPrices(ctx context.Context, productID int) ([]PriceRow, error)
}

// CatalogClient implements Client against the TCGplayer REST API.
type CatalogClient struct {
	tokens  TokenProvider
	baseURL string
	client  *http.Client
}

// CatalogOption configures the CatalogClient.
type CatalogOption func(*CatalogClient)

// WithAPIBase overrides the default TCGplayer API base URL.
func WithAPIBase(u string) CatalogOption {
	return func(c *CatalogClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) CatalogOption {
	return func(c *CatalogClient) {
		c.client = hc
	}
}

// NewCatalogClient creates a CatalogClient using the given token
// provider.
func NewCatalogClient(tokens TokenProvider, opts ...CatalogOption) *CatalogClient {
	c := &CatalogClient{
		tokens:  tokens,
		baseURL: defaultAPIBase,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type productsResponse struct {
	Results []struct {
		ProductID    int    `json:"productId"`
		Name         string `json:"name"`
		ImageURL     string `json:"imageUrl"`
		ExtendedData []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"extendedData"`
	} `json:"results"`
}

type pricesResponse struct {
	Results []PriceRow `json:"results"`
}

// SearchProducts queries the catalog by product name within the game's
// category, returning extended card attributes for each hit.
func (c *CatalogClient) SearchProducts(ctx context.Context, game domain.Game, query string, limit int) ([]Product, error) {
	categoryID, ok := categoryIDs[game]
	if !ok {
		return nil, ErrUnknownGame
	}

	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	params := url.Values{
		"categoryId":        {strconv.Itoa(categoryID)},
		"productName":       {query},
		"getExtendedFields": {"true"},
		"pageSize":          {strconv.Itoa(limit)},
	}

	var resp productsResponse
	if err := c.get(ctx, "/catalog/products?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}

	products := make([]Product, 0, len(resp.Results))
	for _, r := range resp.Results {
		ext := make(map[string]string, len(r.ExtendedData))
		for _, f := range r.ExtendedData {
			ext[f.Name] = f.Value
		}
		products = append(products, Product{
			ProductID: r.ProductID,
			Name:      r.Name,
			ImageURL:  r.ImageURL,
			SetName:   firstNonEmpty(ext["Set Name"], ext["Set"], ext["Expansion"]),
			Number:    firstNonEmpty(ext["Number"], ext["Card Number"]),
			Rarity:    ext["Rarity"],
		})
	}

	return products, nil
}

// ProductPrices fetches all pricing rows for a product. One row is
// returned per printing variant (Normal, Holofoil, ...).
func (c *CatalogClient) ProductPrices(ctx context.Context, productID int) ([]PriceRow, error) {
	var resp pricesResponse
	if err := c.get(ctx, "/pricing/product/"+strconv.Itoa(productID), &resp); err != nil {
		return nil, fmt.Errorf("fetching prices for product %d: %w", productID, err)
	}
	return resp.Results, nil
}

func (c *CatalogClient) get(ctx context.Context, path string, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("getting access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)

	metrics.TCGPlayerAPICallsTotal.Inc()

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
