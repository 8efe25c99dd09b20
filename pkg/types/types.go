// Package domain defines the core business types for the slash price tracker.
package domain

import (
	"slices"
	"time"
)

// NotAvailable is the sentinel used by source adapters for fields a retailer
// page did not provide.
const NotAvailable = "N/A"

// Site identifies a retailer source adapter.
type Site string

// Site constants.
const (
	SiteWalmart Site = "walmart"
	SiteTarget  Site = "target"
	SiteCostco  Site = "costco"
	SiteBestBuy Site = "bestbuy"
	SiteEbay    Site = "ebay"

	// SiteInternal marks listings posted by users of this service.
	SiteInternal Site = "slash"
)

// SiteAll selects every registered source adapter.
const SiteAll = "all"

// KnownSites lists the retailer sites in their default registration order.
func KnownSites() []Site {
	return []Site{SiteWalmart, SiteTarget, SiteCostco, SiteBestBuy, SiteEbay}
}

// IsKnownSite reports whether s names a retailer adapter.
func IsKnownSite(s string) bool {
	return slices.Contains(KnownSites(), Site(s))
}

// Role is a user's marketplace role.
type Role string

// Role constants.
const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// RawItem is the common shape of a search result regardless of origin.
// Price is kept exactly as the source formatted it.
type RawItem struct {
	Title     string `json:"title"`
	Price     string `json:"price"`
	Link      string `json:"link"`
	ImageLink string `json:"image_link,omitempty"`
	SiteName  string `json:"site_name"`
}

// WishlistEntry is one tracked product of a user together with the price it
// had when it was added to the wishlist.
type WishlistEntry struct {
	ProductName    string  `json:"product_name"`
	ReferencePrice float64 `json:"reference_price"`
	OwnerEmail     string  `json:"owner_email"`
}

// AlertItem is a live result that undercut a wishlist entry's reference price.
// Price holds the parsed numeric value, not the retailer's original text.
type AlertItem struct {
	RawItem
	ReferencePrice float64 `json:"reference_price"`
}

// User is a registered account.
type User struct {
	ID           string    `json:"id"         db:"id"`
	Username     string    `json:"username"   db:"username"`
	Email        string    `json:"email"      db:"email"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name"  db:"last_name"`
	PasswordHash string    `json:"-"          db:"hashed_password"`
	Role         Role      `json:"role"       db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Product is a retailer item that a user tracks through a wishlist or cart.
type Product struct {
	ID        string    `json:"id"                  db:"id"`
	Name      string    `json:"name"                db:"product_name"`
	URL       string    `json:"url"                 db:"product_url"`
	Site      string    `json:"site"                db:"site"`
	Price     float64   `json:"price"               db:"price"`
	Currency  string    `json:"currency"            db:"currency"`
	ImageURL  string    `json:"image_url,omitempty" db:"img_url"`
	UpdatedAt time.Time `json:"updated_at"          db:"updated_at"`
}

// PricePoint is one observation in a tracked product's price history.
type PricePoint struct {
	ProductID  string    `json:"product_id"  db:"product_id"`
	Price      float64   `json:"price"       db:"price"`
	Currency   string    `json:"currency"    db:"currency"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// Listing is a product posted for sale by a user of this service.
type Listing struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	PostedBy    string    `json:"posted_by"   db:"posted_by"`
	PostedAt    time.Time `json:"posted_at"   db:"date_posted"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price"       db:"price"`
	Currency    string    `json:"currency"    db:"currency"`
	Sold        bool      `json:"sold"        db:"sold"`
}

// WishlistItem is a product saved to a user's wishlist. Product.Price is the
// reference price recorded when the item was added.
type WishlistItem struct {
	ID      string    `json:"id"       db:"id"`
	UserID  string    `json:"user_id"  db:"user_id"`
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at" db:"date_added"`
}

// CartItem is a product in a user's shopping cart.
type CartItem struct {
	ID      string    `json:"id"       db:"id"`
	UserID  string    `json:"user_id"  db:"user_id"`
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at" db:"date_added"`
}

// OrderLine is one product within a placed order.
type OrderLine struct {
	ProductID   string  `json:"product_id"   db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	Price       float64 `json:"price"        db:"price"`
}

// Order groups the cart contents checked out together.
type Order struct {
	OrderID  string      `json:"order_id"  db:"order_id"`
	UserID   string      `json:"user_id"   db:"user_id"`
	Lines    []OrderLine `json:"lines"`
	PlacedAt time.Time   `json:"placed_at" db:"date_added"`
}

// Total returns the sum of all line prices.
func (o *Order) Total() float64 {
	var total float64
	for _, l := range o.Lines {
		total += l.Price
	}
	return total
}
