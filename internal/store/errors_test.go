package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantIs   []error
		wantNot  []error
		wantText string
	}{
		{
			name:     "no rows becomes not found",
			err:      pgx.ErrNoRows,
			wantIs:   []error{ErrNotFound, pgx.ErrNoRows},
			wantNot:  []error{ErrConflict},
			wantText: "getting user: not found",
		},
		{
			name:    "unique violation becomes conflict",
			err:     &pgconn.PgError{Code: pgUniqueViolation},
			wantIs:  []error{ErrConflict},
			wantNot: []error{ErrNotFound},
		},
		{
			name:   "foreign key violation becomes not found",
			err:    &pgconn.PgError{Code: pgForeignKeyViolation},
			wantIs: []error{ErrNotFound},
		},
		{
			name:   "malformed uuid becomes not found",
			err:    &pgconn.PgError{Code: pgInvalidText},
			wantIs: []error{ErrNotFound},
		},
		{
			name:     "other errors are only wrapped",
			err:      errors.New("connection reset"),
			wantNot:  []error{ErrNotFound, ErrConflict},
			wantText: "getting user: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classify(tt.err, "getting user")
			for _, target := range tt.wantIs {
				assert.ErrorIs(t, got, target)
			}
			for _, target := range tt.wantNot {
				assert.NotErrorIs(t, got, target)
			}
			if tt.wantText != "" {
				assert.Contains(t, got.Error(), tt.wantText)
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, classify(nil, "anything"))
}
