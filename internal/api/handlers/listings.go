package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/slash/internal/store"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// ListingsHandler handles internal listing endpoints.
type ListingsHandler struct {
	store store.Store
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(s store.Store) *ListingsHandler {
	return &ListingsHandler{store: s}
}

// --- Input/Output types ---

// ListListingsInput is the input for listing listings with optional filters.
type ListListingsInput struct {
	Name        string  `query:"name"         doc:"Case-insensitive name substring"`
	PostedBy    string  `query:"posted_by"    doc:"Username of the seller"`
	MinPrice    float64 `query:"min_price"    doc:"Minimum price"                      minimum:"0"`
	MaxPrice    float64 `query:"max_price"    doc:"Maximum price"                      minimum:"0"`
	IncludeSold bool    `query:"include_sold" doc:"Include listings already sold"`
	Limit       int     `query:"limit"        doc:"Number of results (default 50)"     minimum:"1" maximum:"500"`
	Offset      int     `query:"offset"       doc:"Pagination offset"                  minimum:"0"`
	OrderBy     string  `query:"order_by"     doc:"Sort field"                         enum:"price,date_posted,name,"`
}

// ListListingsOutput is the response for listing listings.
type ListListingsOutput struct {
	Body struct {
		Listings []domain.Listing `json:"listings"`
		Total    int              `json:"total"`
		Limit    int              `json:"limit"`
		Offset   int              `json:"offset"`
	}
}

// CreateListingInput is the input for posting a listing.
type CreateListingInput struct {
	Body struct {
		PostedBy    string  `json:"posted_by"             minLength:"1" doc:"Username of the seller"     example:"alice"`
		Name        string  `json:"name"                  minLength:"1" doc:"Product name"               example:"Used Switch OLED"`
		Description string  `json:"description,omitempty" doc:"Free-form description"`
		Price       float64 `json:"price"                 minimum:"0"   doc:"Asking price"               example:"249.99"`
		Currency    string  `json:"currency,omitempty"    doc:"ISO currency code (default USD)" example:"USD"`
	}
}

// ListingOutput wraps a single listing.
type ListingOutput struct {
	Body domain.Listing
}

// MarkSoldInput identifies a listing to mark sold.
type MarkSoldInput struct {
	ID string `path:"id" doc:"Listing UUID"`
}

// --- Handlers ---

// ListListings returns listings with optional name, seller, and price filters.
func (h *ListingsHandler) ListListings(
	ctx context.Context,
	input *ListListingsInput,
) (*ListListingsOutput, error) {
	q := &store.ListingQuery{
		IncludeSold: input.IncludeSold,
		Limit:       input.Limit,
		Offset:      input.Offset,
		OrderBy:     input.OrderBy,
	}

	if input.Name != "" {
		q.Name = &input.Name
	}

	if input.PostedBy != "" {
		u, err := lookupUser(ctx, h.store, input.PostedBy)
		if err != nil {
			return nil, err
		}
		q.PostedBy = &u.ID
	}

	if input.MinPrice != 0 {
		q.MinPrice = &input.MinPrice
	}

	if input.MaxPrice != 0 {
		q.MaxPrice = &input.MaxPrice
	}

	listings, total, err := h.store.ListListings(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing query failed: " + err.Error())
	}

	resp := &ListListingsOutput{}
	resp.Body.Listings = listings
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset

	return resp, nil
}

// CreateListing posts a product for sale. Only sellers may post.
func (h *ListingsHandler) CreateListing(
	ctx context.Context,
	input *CreateListingInput,
) (*ListingOutput, error) {
	u, err := lookupUser(ctx, h.store, input.Body.PostedBy)
	if err != nil {
		return nil, err
	}
	if u.Role != domain.RoleSeller {
		return nil, huma.Error403Forbidden("only sellers may post listings")
	}

	l := &domain.Listing{
		Name:        input.Body.Name,
		PostedBy:    u.ID,
		Description: input.Body.Description,
		Price:       input.Body.Price,
		Currency:    input.Body.Currency,
	}
	if err := h.store.CreateListing(ctx, l); err != nil {
		return nil, apiError("creating listing", err)
	}

	return &ListingOutput{Body: *l}, nil
}

// MarkSold flags a listing as sold so it no longer appears in searches.
func (h *ListingsHandler) MarkSold(ctx context.Context, input *MarkSoldInput) (*struct{}, error) {
	if err := h.store.MarkListingSold(ctx, input.ID); err != nil {
		return nil, apiError("listing", err)
	}
	return nil, nil
}

// RegisterListingRoutes registers listing endpoints with the Huma API.
func RegisterListingRoutes(api huma.API, h *ListingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings",
		Summary:     "List listings",
		Description: "Returns internal listings with optional name, seller, and price filters and pagination.",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusNotFound},
	}, h.ListListings)

	huma.Register(api, huma.Operation{
		OperationID:   "create-listing",
		Method:        http.MethodPost,
		Path:          "/api/v1/listings",
		Summary:       "Post a listing",
		Description:   "Posts a product for sale. The poster must be a registered seller.",
		Tags:          []string{"listings"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusForbidden, http.StatusNotFound},
	}, h.CreateListing)

	huma.Register(api, huma.Operation{
		OperationID:   "mark-listing-sold",
		Method:        http.MethodPost,
		Path:          "/api/v1/listings/{id}/sold",
		Summary:       "Mark a listing sold",
		Description:   "Flags a listing as sold. Sold listings are excluded from search.",
		Tags:          []string{"listings"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.MarkSold)
}
