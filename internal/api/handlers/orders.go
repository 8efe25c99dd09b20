package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/slash/internal/store"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// OrdersHandler handles checkout and order history.
type OrdersHandler struct {
	store store.Store
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(s store.Store) *OrdersHandler {
	return &OrdersHandler{store: s}
}

// ListOrdersOutput is the response for listing orders.
type ListOrdersOutput struct {
	Body struct {
		Orders []domain.Order `json:"orders"`
	}
}

// OrderOutput wraps a single order.
type OrderOutput struct {
	Body struct {
		domain.Order
		Total float64 `json:"total"`
	}
}

// List returns a user's orders, newest first.
func (h *OrdersHandler) List(ctx context.Context, input *UserPathInput) (*ListOrdersOutput, error) {
	u, err := lookupUser(ctx, h.store, input.Username)
	if err != nil {
		return nil, err
	}

	orders, err := h.store.ListOrders(ctx, u.ID)
	if err != nil {
		return nil, apiError("listing orders", err)
	}

	out := &ListOrdersOutput{}
	out.Body.Orders = orders
	return out, nil
}

// Place checks out the user's cart as one order and empties the cart.
func (h *OrdersHandler) Place(ctx context.Context, input *UserPathInput) (*OrderOutput, error) {
	u, err := lookupUser(ctx, h.store, input.Username)
	if err != nil {
		return nil, err
	}

	order, err := h.store.PlaceOrder(ctx, u.ID)
	if err != nil {
		return nil, apiError("placing order", err)
	}

	out := &OrderOutput{}
	out.Body.Order = *order
	out.Body.Total = order.Total()
	return out, nil
}

// RegisterOrderRoutes registers order endpoints with the Huma API.
func RegisterOrderRoutes(api huma.API, h *OrdersHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-orders",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/orders",
		Summary:     "List orders",
		Tags:        []string{"orders"},
		Errors:      []int{http.StatusNotFound},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "place-order",
		Method:        http.MethodPost,
		Path:          "/api/v1/users/{username}/orders",
		Summary:       "Place an order",
		Description:   "Checks out every item in the cart as a single order. An empty cart is rejected with 409.",
		Tags:          []string{"orders"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusNotFound, http.StatusConflict},
	}, h.Place)
}
