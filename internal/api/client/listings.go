package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// ListingsResponse wraps a paginated listings response.
type ListingsResponse struct {
	Listings []domain.Listing `json:"listings"`
	Total    int              `json:"total"`
}

// ListListingsParams defines query parameters for listing queries.
type ListListingsParams struct {
	Name        string
	PostedBy    string
	MinPrice    float64
	MaxPrice    float64
	IncludeSold bool
	Limit       int
	Offset      int
	OrderBy     string
}

// CreateListingParams is the body of a create-listing request.
type CreateListingParams struct {
	PostedBy    string  `json:"posted_by"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency,omitempty"`
}

// ListListings returns listings matching the given parameters.
func (c *Client) ListListings(
	ctx context.Context,
	params *ListListingsParams,
) (*ListingsResponse, error) {
	q := url.Values{}
	if params.Name != "" {
		q.Set("name", params.Name)
	}
	if params.PostedBy != "" {
		q.Set("posted_by", params.PostedBy)
	}
	if params.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(params.MinPrice, 'f', -1, 64))
	}
	if params.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(params.MaxPrice, 'f', -1, 64))
	}
	if params.IncludeSold {
		q.Set("include_sold", "true")
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.OrderBy != "" {
		q.Set("order_by", params.OrderBy)
	}

	path := "/api/v1/listings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListingsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateListing posts a listing for sale.
func (c *Client) CreateListing(ctx context.Context, params *CreateListingParams) (*domain.Listing, error) {
	var l domain.Listing
	if err := c.post(ctx, "/api/v1/listings", params, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// MarkListingSold flags a listing as sold.
func (c *Client) MarkListingSold(ctx context.Context, id string) error {
	return c.post(ctx, "/api/v1/listings/"+url.PathEscape(id)+"/sold", nil, nil)
}
