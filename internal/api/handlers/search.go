package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/slash/internal/engine"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// Searcher runs an aggregated search across retailer sources.
type Searcher interface {
	Search(ctx context.Context, req engine.SearchRequest) ([]domain.RawItem, error)
}

// SearchHandler handles aggregated search requests.
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(s Searcher) *SearchHandler {
	return &SearchHandler{searcher: s}
}

// SearchInput is the request body for the search endpoint.
type SearchInput struct {
	Body struct {
		Query    string   `json:"query"               minLength:"1" doc:"Product search query" example:"wireless headphones"`
		Site     string   `json:"site,omitempty"      doc:"Retailer to search, or all (default all)" example:"walmart"`
		MinPrice *float64 `json:"min_price,omitempty" minimum:"0"   doc:"Lowest accepted price (default 0)" example:"20"`
		MaxPrice *float64 `json:"max_price,omitempty" minimum:"0"   doc:"Highest accepted price (default 10000)" example:"150"`
	}
}

// SearchOutput is the response body for the search endpoint.
type SearchOutput struct {
	Body struct {
		Items []domain.RawItem `json:"items" doc:"Matching items in source order, internal listings last"`
		Total int              `json:"total" doc:"Number of items returned"`
	}
}

// Search queries the selected retailers and internal listings and returns the
// items whose price falls within the requested range.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	req := engine.SearchRequest{
		Query:    input.Body.Query,
		Site:     input.Body.Site,
		MinPrice: engine.DefaultMinPrice,
		MaxPrice: engine.DefaultMaxPrice,
	}
	if input.Body.MinPrice != nil {
		req.MinPrice = *input.Body.MinPrice
	}
	if input.Body.MaxPrice != nil {
		req.MaxPrice = *input.Body.MaxPrice
	}

	items, err := h.searcher.Search(ctx, req)
	if err != nil {
		return nil, apiError("search", err)
	}

	out := &SearchOutput{}
	out.Body.Items = items
	out.Body.Total = len(items)
	return out, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-products",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Search retailers",
		Description: "Searches the selected retailers and internal listings concurrently and " +
			"returns the items priced within [min_price, max_price].",
		Tags:   []string{"search"},
		Errors: []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Search)
}
