package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"

	"github.com/flipradar-io/flipradar/internal/api/handlers"
	"github.com/flipradar-io/flipradar/internal/pipeline"
	domain "github.com/flipradar-io/flipradar/pkg/types"
)

type stubScanner struct {
	textResult    *pipeline.Result
	catalogResult *pipeline.Result
	err           error

	lastGame  domain.Game
	lastQuery string
}

func (s *stubScanner) RunTextSearch(_ context.Context, game domain.Game, query string) (*pipeline.Result, error) {
	s.lastGame, s.lastQuery = game, query
	return s.textResult, s.err
}

func (s *stubScanner) RunCatalog(_ context.Context, game domain.Game, query string) (*pipeline.Result, error) {
	s.lastGame, s.lastQuery = game, query
	return s.catalogResult, s.err
}

func newScanAPI(t *testing.T, s handlers.Scanner) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	handlers.RegisterScanRoutes(api, handlers.NewScanHandler(s))
	return api
}

func TestScanHandler_Scan(t *testing.T) {
	t.Parallel()

	median := 40.0
	scanner := &stubScanner{
		textResult: &pipeline.Result{
			Game:          domain.GamePokemon,
			Query:         "charizard",
			MarketQuery:   "charizard pokemon card",
			SoldStats:     domain.PriceStatistics{Count: 5, Median: &median},
			SoldCompsUsed: 5,
			Opportunities: []domain.Opportunity{
				{
					Listing: domain.Listing{Title: "Charizard Holo", Price: 20},
					Score:   9.52,
				},
			},
		},
	}

	api := newScanAPI(t, scanner)
	resp := api.Post("/api/v1/scan", map[string]any{
		"game":  "pokemon",
		"query": "charizard",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"sold_comps_used":5`)
	assert.Contains(t, resp.Body.String(), `"Charizard Holo"`)
	assert.Equal(t, domain.GamePokemon, scanner.lastGame)
	assert.Equal(t, "charizard", scanner.lastQuery)
}

func TestScanHandler_Scan_InvalidGame(t *testing.T) {
	t.Parallel()

	api := newScanAPI(t, &stubScanner{})
	resp := api.Post("/api/v1/scan", map[string]any{
		"game":  "yugioh",
		"query": "dark magician",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestScanHandler_Scan_MissingQuery(t *testing.T) {
	t.Parallel()

	api := newScanAPI(t, &stubScanner{})
	resp := api.Post("/api/v1/scan", map[string]any{
		"game": "pokemon",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestScanHandler_Scan_MarketplaceError(t *testing.T) {
	t.Parallel()

	api := newScanAPI(t, &stubScanner{err: errors.New("connection refused")})
	resp := api.Post("/api/v1/scan", map[string]any{
		"game":  "pokemon",
		"query": "charizard",
	})

	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), "marketplace error")
}

func TestScanHandler_CatalogScan(t *testing.T) {
	t.Parallel()

	price := 50.0
	scanner := &stubScanner{
		catalogResult: &pipeline.Result{
			Game:  domain.GamePokemon,
			Query: "charizard",
			Reference: &domain.CardReference{
				ProductID: 42,
				Name:      "Charizard",
				SetName:   "Base Set",
			},
			CatalogPrice:  &price,
			Opportunities: []domain.Opportunity{},
		},
	}

	api := newScanAPI(t, scanner)
	resp := api.Post("/api/v1/catalog/scan", map[string]any{
		"game":  "pokemon",
		"query": "charizard",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"product_id":42`)
	assert.Contains(t, resp.Body.String(), `"catalog_price":50`)
}

func TestScanHandler_CatalogScan_PipelineValidation(t *testing.T) {
	t.Parallel()

	api := newScanAPI(t, &stubScanner{err: pipeline.ErrEmptyQuery})
	resp := api.Post("/api/v1/catalog/scan", map[string]any{
		"game":  "pokemon",
		"query": " ",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
