package retail

import (
	"context"
	"errors"

	"github.com/donaldgifford/slash/internal/ebay"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// EbaySource searches eBay through the Browse API.
type EbaySource struct {
	client ebay.EbayClient
	limit  int
}

// NewEbay creates the eBay adapter around a Browse API client.
func NewEbay(client ebay.EbayClient, limit int) *EbaySource {
	return &EbaySource{client: client, limit: limit}
}

// Name implements Source.
func (s *EbaySource) Name() domain.Site { return domain.SiteEbay }

// Fetch implements Source.
func (s *EbaySource) Fetch(ctx context.Context, query string) ([]domain.RawItem, error) {
	resp, err := s.client.Search(ctx, ebay.SearchRequest{Query: query, Limit: s.limit})
	if err != nil {
		return nil, classifyEbayError(err)
	}
	return ebay.ToRawItems(resp.Items), nil
}

func classifyEbayError(err error) *Error {
	var apiErr *ebay.APIError
	switch {
	case errors.As(err, &apiErr):
		return &Error{Kind: KindStatus, Site: domain.SiteEbay, StatusCode: apiErr.StatusCode, Err: err}
	case errors.Is(err, ebay.ErrMalformedResponse):
		return &Error{Kind: KindParse, Site: domain.SiteEbay, Err: err}
	default:
		return &Error{Kind: KindNetwork, Site: domain.SiteEbay, Err: err}
	}
}
