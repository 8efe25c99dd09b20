package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByPrice      = "price"
	orderByDatePosted = "date_posted"
	orderByName       = "name"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByPrice:      "price ASC, id",
	orderByDatePosted: "date_posted DESC, id",
	orderByName:       "lower(name) ASC, id",
}

const defaultOrderBy = "date_posted DESC, id"

const baseListingsSelect = `SELECT id, name, posted_by, date_posted, description, price, currency, sold
FROM product_postings`

const countListingsSelect = "SELECT COUNT(*) FROM product_postings"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a listing query.
// It returns two SQL strings (one for the data query, one for the count query)
// and the positional parameters.
func (q *ListingQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if !q.IncludeSold {
		conditions = append(conditions, "NOT sold")
	}

	if q.Name != nil {
		conditions = append(conditions, fmt.Sprintf("strpos(lower(name), lower($%d)) > 0", paramIdx))
		args = append(args, *q.Name)
		paramIdx++
	}

	if q.PostedBy != nil {
		conditions = append(conditions, fmt.Sprintf("posted_by = $%d", paramIdx))
		args = append(args, *q.PostedBy)
		paramIdx++
	}

	if q.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", paramIdx))
		args = append(args, *q.MinPrice)
		paramIdx++
	}

	if q.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", paramIdx))
		args = append(args, *q.MaxPrice)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := defaultOrderBy
	if q.OrderBy != "" {
		if col, ok := validOrderBy[q.OrderBy]; ok {
			orderClause = col
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseListingsSelect, whereClause, orderClause, limit, offset,
	)

	countSQL = countListingsSelect + whereClause

	return dataSQL, countSQL, args
}
