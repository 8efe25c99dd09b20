package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/slash/internal/store"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// ProductsHandler serves tracked products and their price history.
type ProductsHandler struct {
	store store.Store
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(s store.Store) *ProductsHandler {
	return &ProductsHandler{store: s}
}

// GetProductInput identifies a tracked product.
type GetProductInput struct {
	ID string `path:"id" doc:"Product UUID"`
}

// ProductOutput wraps a single product.
type ProductOutput struct {
	Body domain.Product
}

// PriceHistoryInput is the input for a product's price history.
type PriceHistoryInput struct {
	ID    string `path:"id"     doc:"Product UUID"`
	Limit int    `query:"limit" doc:"Most recent points to return (default 100)" minimum:"1" maximum:"1000" default:"100"`
}

// PriceHistoryOutput is the response for a product's price history.
type PriceHistoryOutput struct {
	Body struct {
		Product domain.Product      `json:"product"`
		Points  []domain.PricePoint `json:"points"`
	}
}

// Get returns a tracked product.
func (h *ProductsHandler) Get(ctx context.Context, input *GetProductInput) (*ProductOutput, error) {
	p, err := h.store.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, apiError("product", err)
	}
	return &ProductOutput{Body: *p}, nil
}

// History returns a tracked product and its recorded prices, newest first.
func (h *ProductsHandler) History(ctx context.Context, input *PriceHistoryInput) (*PriceHistoryOutput, error) {
	p, err := h.store.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, apiError("product", err)
	}

	limit := input.Limit
	if limit == 0 {
		limit = 100
	}

	points, err := h.store.ListPriceHistory(ctx, input.ID, limit)
	if err != nil {
		return nil, apiError("listing price history", err)
	}

	out := &PriceHistoryOutput{}
	out.Body.Product = *p
	out.Body.Points = points
	return out, nil
}

// RegisterProductRoutes registers product endpoints with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}",
		Summary:     "Get a tracked product",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "get-product-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}/history",
		Summary:     "Get price history",
		Description: "Returns the prices recorded each time the product was tracked, newest first.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound},
	}, h.History)
}
