package client

import (
	"context"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// SearchParams is the body of a search request. Nil prices use the server
// defaults.
type SearchParams struct {
	Query    string   `json:"query"`
	Site     string   `json:"site,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// SearchResponse is the aggregated search result.
type SearchResponse struct {
	Items []domain.RawItem `json:"items"`
	Total int              `json:"total"`
}

// Search runs an aggregated search across retailers and internal listings.
func (c *Client) Search(ctx context.Context, params *SearchParams) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.post(ctx, "/api/v1/search", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
