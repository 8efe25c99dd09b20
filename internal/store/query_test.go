package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestListingQuery_ToSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		query         ListingQuery
		wantCountSQL  string
		wantArgs      []any
		wantDataHas   []string // substrings that must appear in dataSQL
		wantDataNotIn []string // substrings that must NOT appear
	}{
		{
			name:  "empty query hides sold listings and uses defaults",
			query: ListingQuery{},
			wantDataHas: []string{
				"FROM product_postings WHERE NOT sold",
				"ORDER BY date_posted DESC, id",
				"LIMIT 50",
				"OFFSET 0",
			},
			wantCountSQL: "SELECT COUNT(*) FROM product_postings WHERE NOT sold",
			wantArgs:     nil,
		},
		{
			name:          "include sold drops the where clause",
			query:         ListingQuery{IncludeSold: true},
			wantDataNotIn: []string{"WHERE"},
			wantCountSQL:  "SELECT COUNT(*) FROM product_postings",
		},
		{
			name:         "name filter",
			query:        ListingQuery{Name: ptr("laptop"), IncludeSold: true},
			wantDataHas:  []string{"WHERE strpos(lower(name), lower($1)) > 0"},
			wantCountSQL: "SELECT COUNT(*) FROM product_postings WHERE strpos(lower(name), lower($1)) > 0",
			wantArgs:     []any{"laptop"},
		},
		{
			name:         "posted by filter",
			query:        ListingQuery{PostedBy: ptr("user-1")},
			wantCountSQL: "SELECT COUNT(*) FROM product_postings WHERE NOT sold AND posted_by = $1",
			wantArgs:     []any{"user-1"},
		},
		{
			name: "multiple filters with correct parameter numbering",
			query: ListingQuery{
				Name:     ptr("tv"),
				PostedBy: ptr("user-2"),
				MinPrice: ptr(50.0),
				MaxPrice: ptr(500.0),
			},
			wantDataHas: []string{
				"strpos(lower(name), lower($1)) > 0",
				"posted_by = $2",
				"price >= $3",
				"price <= $4",
				" AND ",
			},
			wantCountSQL: "SELECT COUNT(*) FROM product_postings WHERE NOT sold AND " +
				"strpos(lower(name), lower($1)) > 0 AND posted_by = $2 AND price >= $3 AND price <= $4",
			wantArgs: []any{"tv", "user-2", 50.0, 500.0},
		},
		{
			name:        "order by price",
			query:       ListingQuery{OrderBy: "price"},
			wantDataHas: []string{"ORDER BY price ASC, id"},
		},
		{
			name:        "order by name",
			query:       ListingQuery{OrderBy: "name"},
			wantDataHas: []string{"ORDER BY lower(name) ASC, id"},
		},
		{
			name:          "invalid order by falls back to default",
			query:         ListingQuery{OrderBy: "DROP TABLE users; --"},
			wantDataHas:   []string{"ORDER BY date_posted DESC, id"},
			wantDataNotIn: []string{"DROP TABLE"},
		},
		{
			name:        "custom limit and offset",
			query:       ListingQuery{Limit: 25, Offset: 100},
			wantDataHas: []string{"LIMIT 25", "OFFSET 100"},
		},
		{
			name:        "negative limit defaults to 50",
			query:       ListingQuery{Limit: -10},
			wantDataHas: []string{"LIMIT 50"},
		},
		{
			name:        "limit exceeding max is capped",
			query:       ListingQuery{Limit: 1000},
			wantDataHas: []string{"LIMIT 500"},
		},
		{
			name:        "negative offset defaults to 0",
			query:       ListingQuery{Offset: -5},
			wantDataHas: []string{"OFFSET 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := tt.query
			dataSQL, countSQL, args := q.ToSQL()

			for _, s := range tt.wantDataHas {
				assert.Contains(t, dataSQL, s, "dataSQL should contain %q", s)
			}

			for _, s := range tt.wantDataNotIn {
				assert.NotContains(t, dataSQL, s, "dataSQL should not contain %q", s)
			}

			if tt.wantCountSQL != "" {
				assert.Equal(t, tt.wantCountSQL, countSQL)
			}

			if tt.wantArgs != nil {
				require.Len(t, args, len(tt.wantArgs))
				assert.Equal(t, tt.wantArgs, args)
			} else {
				assert.Empty(t, args)
			}
		})
	}
}

func TestMigrationVersions(t *testing.T) {
	t.Parallel()

	versions, err := migrationVersions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, "001_initial_schema.sql", versions[0])
	assert.IsNonDecreasing(t, versions)
}
