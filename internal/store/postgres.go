package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/slash/pkg/types"
)

const (
	defaultPoolSize     = 10
	defaultHistoryLimit = 100
)

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
// A poolSize of zero or less uses the default of 10 connections.
func NewPostgresStore(ctx context.Context, connString string, poolSize int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	cfg.MaxConns = int32(poolSize) //nolint:gosec // bounded by config validation

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateUser inserts a user and fills in its ID and CreatedAt.
func (s *PostgresStore) CreateUser(ctx context.Context, u *domain.User) error {
	args := pgx.NamedArgs{
		"username":        u.Username,
		"email":           u.Email,
		"first_name":      u.FirstName,
		"last_name":       u.LastName,
		"hashed_password": u.PasswordHash,
		"role":            string(u.Role),
	}

	err := s.pool.QueryRow(ctx, queryCreateUser, args).Scan(&u.ID, &u.CreatedAt)
	return classify(err, "creating user")
}

// GetUserByUsername retrieves a user by username.
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u := &domain.User{}
	if err := scanUser(s.pool.QueryRow(ctx, queryGetUserByUsername, username), u); err != nil {
		return nil, classify(err, "getting user "+username)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email address, ignoring case.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	if err := scanUser(s.pool.QueryRow(ctx, queryGetUserByEmail, email), u); err != nil {
		return nil, classify(err, "getting user by email")
	}
	return u, nil
}

// ListUsers returns every registered user.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, queryListUsers)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// CreateListing inserts an internal product posting.
func (s *PostgresStore) CreateListing(ctx context.Context, l *domain.Listing) error {
	currency := l.Currency
	if currency == "" {
		currency = "USD"
	}

	args := pgx.NamedArgs{
		"name":        l.Name,
		"posted_by":   l.PostedBy,
		"description": l.Description,
		"price":       l.Price,
		"currency":    currency,
	}

	err := s.pool.QueryRow(ctx, queryCreateListing, args).Scan(&l.ID, &l.PostedAt, &l.Sold)
	if err != nil {
		return classify(err, "creating listing")
	}
	l.Currency = currency
	return nil
}

// ListListings queries listings with optional filters, returning results and total count.
func (s *PostgresStore) ListListings(
	ctx context.Context,
	opts *ListingQuery,
) ([]domain.Listing, int, error) {
	if opts == nil {
		opts = &ListingQuery{}
	}
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting listings: %w", err)
	}

	listings, err := s.queryListings(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// FindListingsByName returns unsold listings whose name contains name, ignoring case.
func (s *PostgresStore) FindListingsByName(ctx context.Context, name string) ([]domain.Listing, error) {
	return s.queryListings(ctx, queryFindListingsByName, name)
}

// MarkListingSold flags a listing as sold.
func (s *PostgresStore) MarkListingSold(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryMarkListingSold, id)
	if err != nil {
		return classify(err, "marking listing sold")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("marking listing %s sold: %w", id, ErrNotFound)
	}
	return nil
}

// UpsertProduct inserts a tracked product or refreshes its price, keyed by
// (URL, site). Every call also appends to the product's price history.
func (s *PostgresStore) UpsertProduct(ctx context.Context, p *domain.Product) error {
	if p.Currency == "" {
		p.Currency = "USD"
	}

	args := pgx.NamedArgs{
		"product_name": p.Name,
		"product_url":  p.URL,
		"site":         p.Site,
		"price":        p.Price,
		"currency":     p.Currency,
		"img_url":      p.ImageURL,
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, queryUpsertProduct, args).Scan(&p.ID, &p.UpdatedAt); err != nil {
			return classify(err, "upserting product")
		}
		if _, err := tx.Exec(ctx, queryRecordPrice, p.ID, p.Price, p.Currency); err != nil {
			return fmt.Errorf("recording price history: %w", err)
		}
		return nil
	})
}

// GetProduct retrieves a tracked product by ID.
func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}
	err := s.pool.QueryRow(ctx, queryGetProduct, id).Scan(
		&p.ID, &p.Name, &p.URL, &p.Site, &p.Price, &p.Currency, &p.ImageURL, &p.UpdatedAt,
	)
	if err != nil {
		return nil, classify(err, "getting product")
	}
	return p, nil
}

// ListPriceHistory returns the newest price observations for a product.
func (s *PostgresStore) ListPriceHistory(
	ctx context.Context,
	productID string,
	limit int,
) ([]domain.PricePoint, error) {
	if limit <= 0 || limit > maxLimit {
		limit = defaultHistoryLimit
	}

	rows, err := s.pool.Query(ctx, queryListPriceHistory, productID, limit)
	if err != nil {
		return nil, classify(err, "querying price history")
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var pp domain.PricePoint
		if err := rows.Scan(&pp.ProductID, &pp.Price, &pp.Currency, &pp.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning price point: %w", err)
		}
		points = append(points, pp)
	}

	return points, rows.Err()
}

// AddWishlistItem saves a product to a user's wishlist. The product's current
// price becomes the item's reference price.
func (s *PostgresStore) AddWishlistItem(
	ctx context.Context,
	userID, productID string,
) (*domain.WishlistItem, error) {
	args := pgx.NamedArgs{"user_id": userID, "product_id": productID}

	w := &domain.WishlistItem{}
	if err := scanTrackedItem(s.pool.QueryRow(ctx, queryAddWishlistItem, args),
		&w.ID, &w.UserID, &w.AddedAt, &w.Product); err != nil {
		return nil, classify(err, "adding wishlist item")
	}
	return w, nil
}

// ListWishlist returns a user's wishlist, oldest first.
func (s *PostgresStore) ListWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	rows, err := s.pool.Query(ctx, queryListWishlist, userID)
	if err != nil {
		return nil, classify(err, "querying wishlist")
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var w domain.WishlistItem
		if err := scanTrackedItem(rows, &w.ID, &w.UserID, &w.AddedAt, &w.Product); err != nil {
			return nil, fmt.Errorf("scanning wishlist item: %w", err)
		}
		items = append(items, w)
	}

	return items, rows.Err()
}

// RemoveWishlistItem deletes one of the user's wishlist items.
func (s *PostgresStore) RemoveWishlistItem(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, queryRemoveWishlistItem, "wishlist item", userID, id)
}

// FindWishlistEntries returns the alert inputs for every wishlist item of the
// named user.
func (s *PostgresStore) FindWishlistEntries(
	ctx context.Context,
	username string,
) ([]domain.WishlistEntry, error) {
	rows, err := s.pool.Query(ctx, queryFindWishlistEntries, username)
	if err != nil {
		return nil, fmt.Errorf("querying wishlist entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.WishlistEntry{}
	for rows.Next() {
		var e domain.WishlistEntry
		if err := rows.Scan(&e.ProductName, &e.ReferencePrice, &e.OwnerEmail); err != nil {
			return nil, fmt.Errorf("scanning wishlist entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// AddCartItem puts a product in the user's cart.
func (s *PostgresStore) AddCartItem(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	args := pgx.NamedArgs{"user_id": userID, "product_id": productID}

	c := &domain.CartItem{}
	if err := scanTrackedItem(s.pool.QueryRow(ctx, queryAddCartItem, args),
		&c.ID, &c.UserID, &c.AddedAt, &c.Product); err != nil {
		return nil, classify(err, "adding cart item")
	}
	return c, nil
}

// ListCart returns the user's cart, oldest first.
func (s *PostgresStore) ListCart(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := s.pool.Query(ctx, queryListCart, userID)
	if err != nil {
		return nil, classify(err, "querying cart")
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var c domain.CartItem
		if err := scanTrackedItem(rows, &c.ID, &c.UserID, &c.AddedAt, &c.Product); err != nil {
			return nil, fmt.Errorf("scanning cart item: %w", err)
		}
		items = append(items, c)
	}

	return items, rows.Err()
}

// RemoveCartItem deletes one of the user's cart items.
func (s *PostgresStore) RemoveCartItem(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, queryRemoveCartItem, "cart item", userID, id)
}

// PlaceOrder checks out the user's cart in one transaction: every cart line
// becomes an order row sharing a fresh order ID and the cart is cleared.
func (s *PostgresStore) PlaceOrder(ctx context.Context, userID string) (*domain.Order, error) {
	order := &domain.Order{
		OrderID:  uuid.NewString(),
		UserID:   userID,
		PlacedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, queryCartForOrder, userID)
		if err != nil {
			return classify(err, "reading cart")
		}
		lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.OrderLine, error) {
			var l domain.OrderLine
			err := row.Scan(&l.ProductID, &l.ProductName, &l.Price)
			return l, err
		})
		if err != nil {
			return fmt.Errorf("scanning cart: %w", err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		for _, l := range lines {
			if _, err := tx.Exec(ctx, queryInsertOrderLine,
				order.OrderID, userID, l.ProductID, l.Price, order.PlacedAt,
			); err != nil {
				return fmt.Errorf("inserting order line: %w", err)
			}
		}

		if _, err := tx.Exec(ctx, queryClearCart, userID); err != nil {
			return fmt.Errorf("clearing cart: %w", err)
		}

		order.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders returns the user's orders, newest first, each with its lines.
func (s *PostgresStore) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, queryListOrders, userID)
	if err != nil {
		return nil, classify(err, "querying orders")
	}
	defer rows.Close()

	var orders []domain.Order
	index := map[string]int{}
	for rows.Next() {
		var (
			o domain.Order
			l domain.OrderLine
		)
		if err := rows.Scan(&o.OrderID, &o.UserID, &o.PlacedAt,
			&l.ProductID, &l.ProductName, &l.Price); err != nil {
			return nil, fmt.Errorf("scanning order line: %w", err)
		}

		i, ok := index[o.OrderID]
		if !ok {
			i = len(orders)
			index[o.OrderID] = i
			orders = append(orders, o)
		}
		orders[i].Lines = append(orders[i].Lines, l)
	}

	return orders, rows.Err()
}

func (s *PostgresStore) deleteOwned(ctx context.Context, query, what, userID, id string) error {
	tag, err := s.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return classify(err, "removing "+what)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("removing %s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

// scanUser scans a user row from a pgx.Row or pgx.Rows.
func scanUser(row pgx.Row, u *domain.User) error {
	var role string
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.PasswordHash, &role, &u.CreatedAt,
	); err != nil {
		return err
	}
	u.Role = domain.Role(role)
	return nil
}

func (s *PostgresStore) queryListings(ctx context.Context, sql string, args ...any) ([]domain.Listing, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(err, "querying listings")
	}
	defer rows.Close()

	listings := []domain.Listing{}
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(
			&l.ID, &l.Name, &l.PostedBy, &l.PostedAt,
			&l.Description, &l.Price, &l.Currency, &l.Sold,
		); err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listings: %w", err)
	}

	return listings, nil
}

// scanTrackedItem scans the shared (id, user_id, date_added, product...) shape
// of wishlist and cart rows.
func scanTrackedItem(row pgx.Row, id, userID *string, addedAt *time.Time, p *domain.Product) error {
	return row.Scan(
		id, userID, addedAt,
		&p.ID, &p.Name, &p.URL, &p.Site, &p.Price, &p.Currency, &p.ImageURL, &p.UpdatedAt,
	)
}
