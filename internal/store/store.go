// Package store defines the datastore abstraction for slash.
// Business logic depends on the Store interface, never on the concrete
// PostgreSQL implementation, so engine and handler tests run against mocks.
package store

import (
	"context"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// ListingQuery defines optional filters for listing queries.
type ListingQuery struct {
	Name        *string // case-insensitive substring
	PostedBy    *string
	MinPrice    *float64
	MaxPrice    *float64
	IncludeSold bool
	Limit       int // default 50
	Offset      int
	OrderBy     string // "price", "date_posted", "name"
}

// Store defines all data access operations for slash.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	// Listings
	CreateListing(ctx context.Context, l *domain.Listing) error
	ListListings(ctx context.Context, opts *ListingQuery) ([]domain.Listing, int, error)
	FindListingsByName(ctx context.Context, name string) ([]domain.Listing, error)
	MarkListingSold(ctx context.Context, id string) error

	// Products
	UpsertProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListPriceHistory(ctx context.Context, productID string, limit int) ([]domain.PricePoint, error)

	// Wishlist
	AddWishlistItem(ctx context.Context, userID, productID string) (*domain.WishlistItem, error)
	ListWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	RemoveWishlistItem(ctx context.Context, userID, id string) error
	FindWishlistEntries(ctx context.Context, username string) ([]domain.WishlistEntry, error)

	// Cart
	AddCartItem(ctx context.Context, userID, productID string) (*domain.CartItem, error)
	ListCart(ctx context.Context, userID string) ([]domain.CartItem, error)
	RemoveCartItem(ctx context.Context, userID, id string) error

	// Orders
	PlaceOrder(ctx context.Context, userID string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)

	// System
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
}
