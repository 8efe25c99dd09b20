package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// ProductRef names a product by ID, or describes one to track.
type ProductRef struct {
	ProductID string  `json:"product_id,omitempty"`
	Name      string  `json:"name,omitempty"`
	URL       string  `json:"url,omitempty"`
	Site      string  `json:"site,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// CartResponse is a user's cart with its total.
type CartResponse struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
}

// OrderResponse is a placed order with its total.
type OrderResponse struct {
	domain.Order
	Total float64 `json:"total"`
}

// PriceHistoryResponse is a product and its recorded prices.
type PriceHistoryResponse struct {
	Product domain.Product      `json:"product"`
	Points  []domain.PricePoint `json:"points"`
}

func userPath(username, rest string) string {
	return "/api/v1/users/" + url.PathEscape(username) + rest
}

// ListWishlist returns a user's wishlist.
func (c *Client) ListWishlist(ctx context.Context, username string) ([]domain.WishlistItem, error) {
	var resp struct {
		Items []domain.WishlistItem `json:"items"`
	}
	if err := c.get(ctx, userPath(username, "/wishlist"), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddToWishlist saves a product to a user's wishlist.
func (c *Client) AddToWishlist(ctx context.Context, username string, ref *ProductRef) (*domain.WishlistItem, error) {
	var item domain.WishlistItem
	if err := c.post(ctx, userPath(username, "/wishlist"), ref, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromWishlist deletes a wishlist item.
func (c *Client) RemoveFromWishlist(ctx context.Context, username, id string) error {
	return c.del(ctx, userPath(username, "/wishlist/"+url.PathEscape(id)), nil)
}

// ListCart returns a user's cart.
func (c *Client) ListCart(ctx context.Context, username string) (*CartResponse, error) {
	var resp CartResponse
	if err := c.get(ctx, userPath(username, "/cart"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddToCart puts a product in a user's cart.
func (c *Client) AddToCart(ctx context.Context, username string, ref *ProductRef) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := c.post(ctx, userPath(username, "/cart"), ref, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromCart deletes a cart item.
func (c *Client) RemoveFromCart(ctx context.Context, username, id string) error {
	return c.del(ctx, userPath(username, "/cart/"+url.PathEscape(id)), nil)
}

// ListOrders returns a user's orders, newest first.
func (c *Client) ListOrders(ctx context.Context, username string) ([]domain.Order, error) {
	var resp struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := c.get(ctx, userPath(username, "/orders"), &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// PlaceOrder checks out a user's cart.
func (c *Client) PlaceOrder(ctx context.Context, username string) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.post(ctx, userPath(username, "/orders"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PriceHistory returns up to limit recorded prices for a product.
func (c *Client) PriceHistory(ctx context.Context, productID string, limit int) (*PriceHistoryResponse, error) {
	path := "/api/v1/products/" + url.PathEscape(productID) + "/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp PriceHistoryResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
