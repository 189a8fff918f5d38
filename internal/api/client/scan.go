package client

import (
	"context"

	"github.com/flipradar-io/flipradar/internal/pipeline"
)

// ScanRequest is the body for both scan endpoints.
type ScanRequest struct {
	Game  string `json:"game"`
	Query string `json:"query"`
}

// Scan runs a text-search scan on the server.
func (c *Client) Scan(ctx context.Context, req ScanRequest) (*pipeline.Result, error) {
	var res pipeline.Result
	if err := c.post(ctx, "/api/v1/scan", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CatalogScan runs a catalog scan on the server.
func (c *Client) CatalogScan(ctx context.Context, req ScanRequest) (*pipeline.Result, error) {
	var res pipeline.Result
	if err := c.post(ctx, "/api/v1/catalog/scan", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Healthz reports whether the server is up.
func (c *Client) Healthz(ctx context.Context) error {
	return c.get(ctx, "/healthz", nil)
}
