package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/slash/internal/api/handlers"
	"github.com/donaldgifford/slash/internal/store"
	storeMocks "github.com/donaldgifford/slash/internal/store/mocks"
	domain "github.com/donaldgifford/slash/pkg/types"
)

func TestListingsHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		setupMock  func(*storeMocks.MockStore)
		wantStatus int
		wantBody   string
	}{
		{
			name:  "no filters returns listings",
			query: "",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					ListListings(mock.Anything, mock.Anything).
					Return([]domain.Listing{
						{ID: "l1", Name: "Switch OLED", Price: 249.99},
					}, 1, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total":1`,
		},
		{
			name:  "name and price filters",
			query: "?name=switch&min_price=100&max_price=300",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					ListListings(mock.Anything, mock.MatchedBy(func(q *store.ListingQuery) bool {
						return q.Name != nil && *q.Name == "switch" &&
							q.MinPrice != nil && *q.MinPrice == 100 &&
							q.MaxPrice != nil && *q.MaxPrice == 300 &&
							q.PostedBy == nil
					})).
					Return(nil, 0, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total":0`,
		},
		{
			name:  "posted_by resolves the username",
			query: "?posted_by=alice",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					GetUserByUsername(mock.Anything, "alice").
					Return(&domain.User{ID: "u1", Username: "alice"}, nil).
					Once()
				m.EXPECT().
					ListListings(mock.Anything, mock.MatchedBy(func(q *store.ListingQuery) bool {
						return q.PostedBy != nil && *q.PostedBy == "u1"
					})).
					Return(nil, 0, nil).
					Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "unknown seller returns 404",
			query: "?posted_by=ghost",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					GetUserByUsername(mock.Anything, "ghost").
					Return(nil, fmt.Errorf("getting user ghost: %w", store.ErrNotFound)).
					Once()
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:  "pagination and sold flag",
			query: "?limit=10&offset=20&include_sold=true&order_by=price",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					ListListings(mock.Anything, mock.MatchedBy(func(q *store.ListingQuery) bool {
						return q.Limit == 10 && q.Offset == 20 && q.IncludeSold && q.OrderBy == "price"
					})).
					Return(nil, 0, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"offset":20`,
		},
		{
			name:       "invalid order_by returns 422",
			query:      "?order_by=score",
			setupMock:  func(*storeMocks.MockStore) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:  "store error returns 500",
			query: "",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					ListListings(mock.Anything, mock.Anything).
					Return(nil, 0, errors.New("db down")).
					Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockStore := storeMocks.NewMockStore(t)
			tt.setupMock(mockStore)

			_, api := humatest.New(t)
			handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(mockStore))

			resp := api.Get("/api/v1/listings" + tt.query)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestListingsHandler_Create(t *testing.T) {
	t.Parallel()

	seller := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleSeller}
	buyer := &domain.User{ID: "u2", Username: "bob", Role: domain.RoleBuyer}

	tests := []struct {
		name       string
		body       map[string]any
		setupMock  func(*storeMocks.MockStore)
		wantStatus int
		wantBody   string
	}{
		{
			name: "seller posts a listing",
			body: map[string]any{"posted_by": "alice", "name": "Switch OLED", "price": 249.99},
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().GetUserByUsername(mock.Anything, "alice").Return(seller, nil).Once()
				m.EXPECT().
					CreateListing(mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
						return l.PostedBy == "u1" && l.Name == "Switch OLED" && l.Price == 249.99
					})).
					RunAndReturn(func(_ context.Context, l *domain.Listing) error {
						l.ID = "l1"
						l.Currency = "USD"
						l.PostedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
						return nil
					}).
					Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"id":"l1"`,
		},
		{
			name: "buyer is forbidden",
			body: map[string]any{"posted_by": "bob", "name": "Switch OLED", "price": 249.99},
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().GetUserByUsername(mock.Anything, "bob").Return(buyer, nil).Once()
			},
			wantStatus: http.StatusForbidden,
			wantBody:   `only sellers may post listings`,
		},
		{
			name: "unknown poster returns 404",
			body: map[string]any{"posted_by": "ghost", "name": "Switch OLED", "price": 1},
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					GetUserByUsername(mock.Anything, "ghost").
					Return(nil, store.ErrNotFound).
					Once()
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "negative price returns 422",
			body:       map[string]any{"posted_by": "alice", "name": "Switch OLED", "price": -1},
			setupMock:  func(*storeMocks.MockStore) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "store error returns 500",
			body: map[string]any{"posted_by": "alice", "name": "Switch OLED", "price": 10},
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().GetUserByUsername(mock.Anything, "alice").Return(seller, nil).Once()
				m.EXPECT().CreateListing(mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `creating listing failed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockStore := storeMocks.NewMockStore(t)
			tt.setupMock(mockStore)

			_, api := humatest.New(t)
			handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(mockStore))

			resp := api.Post("/api/v1/listings", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestListingsHandler_MarkSold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "marks sold", wantStatus: http.StatusNoContent},
		{name: "missing listing returns 404", err: store.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "store error returns 500", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockStore := storeMocks.NewMockStore(t)
			mockStore.EXPECT().MarkListingSold(mock.Anything, "l1").Return(tt.err).Once()

			_, api := humatest.New(t)
			handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(mockStore))

			resp := api.Post("/api/v1/listings/l1/sold")
			assert.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
		})
	}
}
