package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flipradar-io/flipradar/internal/pipeline"
	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// Scanner runs opportunity scans. Implemented by pipeline.Pipeline.
type Scanner interface {
	RunTextSearch(ctx context.Context, game domain.Game, query string) (*pipeline.Result, error)
	RunCatalog(ctx context.Context, game domain.Game, query string) (*pipeline.Result, error)
}

// ScanHandler handles on-demand opportunity scan requests.
type ScanHandler struct {
	scanner Scanner
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(s Scanner) *ScanHandler {
	return &ScanHandler{scanner: s}
}

// ScanInput is the request body for both scan endpoints.
type ScanInput struct {
	Body struct {
		Game  string `json:"game" enum:"pokemon,mtg" doc:"Trading card game category" example:"pokemon"`
		Query string `json:"query" minLength:"1" doc:"Card search query" example:"charizard 4/102"`
	}
}

// ScanOutput is the response body for both scan endpoints.
type ScanOutput struct {
	Body pipeline.Result
}

// Scan runs a text-search scan: live listings priced against confident
// sold comps.
func (h *ScanHandler) Scan(ctx context.Context, input *ScanInput) (*ScanOutput, error) {
	res, err := h.scanner.RunTextSearch(ctx, domain.Game(input.Body.Game), input.Body.Query)
	if err != nil {
		return nil, scanError(err)
	}
	return &ScanOutput{Body: *res}, nil
}

// CatalogScan runs a catalog scan: live listings priced against the
// catalog marketplace's posted market price.
func (h *ScanHandler) CatalogScan(ctx context.Context, input *ScanInput) (*ScanOutput, error) {
	res, err := h.scanner.RunCatalog(ctx, domain.Game(input.Body.Game), input.Body.Query)
	if err != nil {
		return nil, scanError(err)
	}
	return &ScanOutput{Body: *res}, nil
}

func scanError(err error) error {
	if errors.Is(err, pipeline.ErrInvalidGame) || errors.Is(err, pipeline.ErrEmptyQuery) {
		return huma.Error422UnprocessableEntity(err.Error())
	}
	return huma.Error502BadGateway("marketplace error: " + err.Error())
}

// RegisterScanRoutes registers scan endpoints with the Huma API.
func RegisterScanRoutes(api huma.API, h *ScanHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "scan",
		Method:      http.MethodPost,
		Path:        "/api/v1/scan",
		Summary:     "Scan for flip opportunities",
		Description: "Searches live listings for the card and surfaces those priced well below recent sold comps.",
		Tags:        []string{"scan"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusBadGateway},
	}, h.Scan)

	huma.Register(api, huma.Operation{
		OperationID: "catalog-scan",
		Method:      http.MethodPost,
		Path:        "/api/v1/catalog/scan",
		Summary:     "Scan against catalog market price",
		Description: "Anchors the card on its catalog product and surfaces live listings flippable at the catalog market price.",
		Tags:        []string{"scan"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusBadGateway},
	}, h.CatalogScan)
}
