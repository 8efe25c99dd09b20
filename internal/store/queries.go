package store

// SQL query constants organized by entity.
// PostgresStore methods reference these constants; the only dynamic SQL is
// built by ListingQuery.ToSQL.

// Migration bookkeeping.
const (
	queryCreateSchemaMigrations = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	queryMigrationApplied = `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`

	queryRecordMigration = `INSERT INTO schema_migrations (version) VALUES ($1)`
)

// User queries.
const (
	userColumns = `id, username, email, first_name, last_name, hashed_password, role, created_at`

	queryCreateUser = `
		INSERT INTO users (username, email, first_name, last_name, hashed_password, role)
		VALUES (@username, @email, @first_name, @last_name, @hashed_password, @role)
		RETURNING id, created_at`

	queryGetUserByUsername = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	queryGetUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	queryListUsers = `SELECT ` + userColumns + ` FROM users ORDER BY created_at, username`
)

// Listing queries.
const (
	queryCreateListing = `
		INSERT INTO product_postings (name, posted_by, description, price, currency)
		VALUES (@name, @posted_by, @description, @price, @currency)
		RETURNING id, date_posted, sold`

	queryFindListingsByName = `
		SELECT id, name, posted_by, date_posted, description, price, currency, sold
		FROM product_postings
		WHERE NOT sold AND strpos(lower(name), lower($1)) > 0
		ORDER BY date_posted, id`

	queryMarkListingSold = `UPDATE product_postings SET sold = true WHERE id = $1`
)

// Product queries.
const (
	productColumns = `id, product_name, product_url, site, price, currency, img_url, updated_at`

	queryUpsertProduct = `
		INSERT INTO price_track_products (product_name, product_url, site, price, currency, img_url)
		VALUES (@product_name, @product_url, @site, @price, @currency, @img_url)
		ON CONFLICT (product_url, site) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			img_url = EXCLUDED.img_url,
			updated_at = now()
		RETURNING id, updated_at`

	queryRecordPrice = `
		INSERT INTO price_track_data (product_id, price, currency)
		VALUES ($1, $2, $3)`

	queryGetProduct = `SELECT ` + productColumns + ` FROM price_track_products WHERE id = $1`

	queryListPriceHistory = `
		SELECT product_id, price, currency, recorded_at
		FROM price_track_data
		WHERE product_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2`
)

// Wishlist queries.
const (
	queryAddWishlistItem = `
		WITH p AS (
			SELECT ` + productColumns + ` FROM price_track_products WHERE id = @product_id
		), ins AS (
			INSERT INTO wishlist (user_id, product_id, reference_price)
			SELECT @user_id::uuid, p.id, p.price FROM p
			RETURNING id, user_id, reference_price, date_added
		)
		SELECT ins.id, ins.user_id, ins.date_added,
			p.id, p.product_name, p.product_url, p.site, ins.reference_price, p.currency, p.img_url, p.updated_at
		FROM ins, p`

	queryListWishlist = `
		SELECT w.id, w.user_id, w.date_added,
			p.id, p.product_name, p.product_url, p.site, w.reference_price, p.currency, p.img_url, p.updated_at
		FROM wishlist w
		JOIN price_track_products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.date_added, w.id`

	queryRemoveWishlistItem = `DELETE FROM wishlist WHERE id = $1 AND user_id = $2`

	queryFindWishlistEntries = `
		SELECT p.product_name, w.reference_price, u.email
		FROM wishlist w
		JOIN users u ON u.id = w.user_id
		JOIN price_track_products p ON p.id = w.product_id
		WHERE u.username = $1
		ORDER BY w.date_added, w.id`
)

// Cart queries.
const (
	queryAddCartItem = `
		WITH p AS (
			SELECT ` + productColumns + ` FROM price_track_products WHERE id = @product_id
		), ins AS (
			INSERT INTO cart (user_id, product_id)
			SELECT @user_id::uuid, p.id FROM p
			RETURNING id, user_id, date_added
		)
		SELECT ins.id, ins.user_id, ins.date_added,
			p.id, p.product_name, p.product_url, p.site, p.price, p.currency, p.img_url, p.updated_at
		FROM ins, p`

	queryListCart = `
		SELECT c.id, c.user_id, c.date_added,
			p.id, p.product_name, p.product_url, p.site, p.price, p.currency, p.img_url, p.updated_at
		FROM cart c
		JOIN price_track_products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.date_added, c.id`

	queryRemoveCartItem = `DELETE FROM cart WHERE id = $1 AND user_id = $2`

	queryCartForOrder = `
		SELECT p.id, p.product_name, p.price
		FROM cart c
		JOIN price_track_products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.date_added, c.id
		FOR UPDATE OF c`

	queryClearCart = `DELETE FROM cart WHERE user_id = $1`
)

// Order queries.
const (
	queryInsertOrderLine = `
		INSERT INTO orders (order_id, user_id, product_id, price, date_added)
		VALUES ($1, $2, $3, $4, $5)`

	queryListOrders = `
		SELECT o.order_id, o.user_id, o.date_added, o.product_id, p.product_name, o.price
		FROM orders o
		JOIN price_track_products p ON p.id = o.product_id
		WHERE o.user_id = $1
		ORDER BY o.date_added DESC, o.order_id, o.id`
)
