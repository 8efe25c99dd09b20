package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/slash/internal/store"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// CartHandler handles per-user shopping cart endpoints.
type CartHandler struct {
	store store.Store
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(s store.Store) *CartHandler {
	return &CartHandler{store: s}
}

// AddCartInput is the input for adding a cart item.
type AddCartInput struct {
	Username string `path:"username" doc:"Account username"`
	Body     ProductRef
}

// ListCartOutput is the response for listing a cart.
type ListCartOutput struct {
	Body struct {
		Items []domain.CartItem `json:"items"`
		Total float64           `json:"total"`
	}
}

// CartItemOutput wraps a single cart item.
type CartItemOutput struct {
	Body domain.CartItem
}

// List returns a user's cart and its running total.
func (h *CartHandler) List(ctx context.Context, input *UserPathInput) (*ListCartOutput, error) {
	u, err := lookupUser(ctx, h.store, input.Username)
	if err != nil {
		return nil, err
	}

	items, err := h.store.ListCart(ctx, u.ID)
	if err != nil {
		return nil, apiError("listing cart", err)
	}

	out := &ListCartOutput{}
	out.Body.Items = items
	for i := range items {
		out.Body.Total += items[i].Product.Price
	}
	return out, nil
}

// Add puts a product in a user's cart.
func (h *CartHandler) Add(ctx context.Context, input *AddCartInput) (*CartItemOutput, error) {
	u, err := lookupUser(ctx, h.store, input.Username)
	if err != nil {
		return nil, err
	}

	productID, err := resolveProduct(ctx, h.store, &input.Body)
	if err != nil {
		return nil, err
	}

	item, err := h.store.AddCartItem(ctx, u.ID, productID)
	if err != nil {
		return nil, apiError("cart item", err)
	}
	return &CartItemOutput{Body: *item}, nil
}

// Remove deletes an item from a user's cart.
func (h *CartHandler) Remove(ctx context.Context, input *UserItemPathInput) (*struct{}, error) {
	u, err := lookupUser(ctx, h.store, input.Username)
	if err != nil {
		return nil, err
	}

	if err := h.store.RemoveCartItem(ctx, u.ID, input.ID); err != nil {
		return nil, apiError("cart item", err)
	}
	return nil, nil
}

// RegisterCartRoutes registers cart endpoints with the Huma API.
func RegisterCartRoutes(api huma.API, h *CartHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-cart",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/cart",
		Summary:     "List cart",
		Tags:        []string{"cart"},
		Errors:      []int{http.StatusNotFound},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "add-cart-item",
		Method:        http.MethodPost,
		Path:          "/api/v1/users/{username}/cart",
		Summary:       "Add to cart",
		Tags:          []string{"cart"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity},
	}, h.Add)

	huma.Register(api, huma.Operation{
		OperationID:   "remove-cart-item",
		Method:        http.MethodDelete,
		Path:          "/api/v1/users/{username}/cart/{id}",
		Summary:       "Remove from cart",
		Tags:          []string{"cart"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.Remove)
}
