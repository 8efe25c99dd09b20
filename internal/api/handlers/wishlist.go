package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/slash/internal/store"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// ProductRef names the product to add to a wishlist or cart. Either ProductID
// refers to an already tracked product, or the remaining fields describe a
// retailer item that is upserted first at its current price.
type ProductRef struct {
	ProductID string  `json:"product_id,omitempty" doc:"UUID of an already tracked product"`
	Name      string  `json:"name,omitempty"       doc:"Product title"              example:"Sony WH-1000XM5"`
	URL       string  `json:"url,omitempty"        doc:"Retailer product page"      example:"https://www.walmart.com/ip/123"`
	Site      string  `json:"site,omitempty"       doc:"Retailer the product is from" example:"walmart"`
	Price     float64 `json:"price,omitempty"      doc:"Current price"              minimum:"0" example:"299.99"`
	Currency  string  `json:"currency,omitempty"   doc:"ISO currency code (default USD)"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// resolveProduct returns the product ID for ref, upserting the product when
// no ID was given.
func resolveProduct(ctx context.Context, s store.Store, ref *ProductRef) (string, error) {
	if ref.ProductID != "" {
		return ref.ProductID, nil
	}
	if ref.Name == "" || ref.URL == "" || ref.Site == "" {
		return "", huma.Error422UnprocessableEntity("either product_id or name, url, and site are required")
	}

	p := &domain.Product{
		Name:     ref.Name,
		URL:      ref.URL,
		Site:     ref.Site,
		Price:    ref.Price,
		Currency: ref.Currency,
		ImageURL: ref.ImageURL,
	}
	if err := s.UpsertProduct(ctx, p); err != nil {
		return "", apiError("tracking product", err)
	}
	return p.ID, nil
}

// WishlistHandler handles per-user wishlist endpoints.
type WishlistHandler struct {
	store store.Store
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(s store.Store) *WishlistHandler {
	return &WishlistHandler{store: s}
}

// UserPathInput identifies a user by path username.
type UserPathInput struct {
	Username string `path:"username" doc:"Account username"`
}

// UserItemPathInput identifies one item in a user's collection.
type UserItemPathInput struct {
	Username string `path:"username" doc:"Account username"`
	ID       string `path:"id"       doc:"Item UUID"`
}

// AddWishlistInput is the input for adding a wishlist item.
type AddWishlistInput struct {
	Username string `path:"username" doc:"Account username"`
	Body     ProductRef
}

// ListWishlistOutput is the response for listing a wishlist.
type ListWishlistOutput struct {
	Body struct {
		Items []domain.WishlistItem `json:"items"`
	}
}

// WishlistItemOutput wraps a single wishlist item.
type WishlistItemOutput struct {
	Body domain.WishlistItem
}

// List returns a user's wishlist.
func (h *WishlistHandler) List(ctx context.Context, input *UserPathInput) (*ListWishlistOutput, error) {
	u, err := lookupUser(ctx, h.store, input.Username)
	if err != nil {
		return nil, err
	}

	items, err := h.store.ListWishlist(ctx, u.ID)
	if err != nil {
		return nil, apiError("listing wishlist", err)
	}

	out := &ListWishlistOutput{}
	out.Body.Items = items
	return out, nil
}

// Add saves a product to a user's wishlist. The product's current price
// becomes the reference price that later alert passes compare against.
func (h *WishlistHandler) Add(ctx context.Context, input *AddWishlistInput) (*WishlistItemOutput, error) {
	u, err := lookupUser(ctx, h.store, input.Username)
	if err != nil {
		return nil, err
	}

	productID, err := resolveProduct(ctx, h.store, &input.Body)
	if err != nil {
		return nil, err
	}

	item, err := h.store.AddWishlistItem(ctx, u.ID, productID)
	if err != nil {
		return nil, apiError("wishlist item", err)
	}
	return &WishlistItemOutput{Body: *item}, nil
}

// Remove deletes an item from a user's wishlist.
func (h *WishlistHandler) Remove(ctx context.Context, input *UserItemPathInput) (*struct{}, error) {
	u, err := lookupUser(ctx, h.store, input.Username)
	if err != nil {
		return nil, err
	}

	if err := h.store.RemoveWishlistItem(ctx, u.ID, input.ID); err != nil {
		return nil, apiError("wishlist item", err)
	}
	return nil, nil
}

// RegisterWishlistRoutes registers wishlist endpoints with the Huma API.
func RegisterWishlistRoutes(api huma.API, h *WishlistHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-wishlist",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/wishlist",
		Summary:     "List wishlist",
		Description: "Returns the products a user tracks, each with its reference price.",
		Tags:        []string{"wishlist"},
		Errors:      []int{http.StatusNotFound},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "add-wishlist-item",
		Method:        http.MethodPost,
		Path:          "/api/v1/users/{username}/wishlist",
		Summary:       "Add to wishlist",
		Description:   "Tracks a product for price-drop alerts at its current price.",
		Tags:          []string{"wishlist"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity},
	}, h.Add)

	huma.Register(api, huma.Operation{
		OperationID:   "remove-wishlist-item",
		Method:        http.MethodDelete,
		Path:          "/api/v1/users/{username}/wishlist/{id}",
		Summary:       "Remove from wishlist",
		Tags:          []string{"wishlist"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.Remove)
}
