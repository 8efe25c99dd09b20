package handlers_test

import (
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

func TestOrdersHandler_Place(t *testing.T) {
	t.Parallel()

	order := &domain.Order{
		OrderID: "o1",
		UserID:  "u1",
		Lines: []domain.OrderLine{
			{ProductID: "p1", ProductName: "Headphones", Price: 80},
			{ProductID: "p2", ProductName: "Case", Price: 20.5},
		},
		PlacedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name       string
		order      *domain.Order
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "places order with total",
			order:      order,
			wantStatus: http.StatusCreated,
			wantBody:   `"total":100.5`,
		},
		{
			name:       "empty cart returns 409",
			err:        store.ErrEmptyCart,
			wantStatus: http.StatusConflict,
			wantBody:   `cart is empty`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockStore := storeMocks.NewMockStore(t)
			expectAlice(mockStore)
			mockStore.EXPECT().PlaceOrder(mock.Anything, "u1").Return(tt.order, tt.err).Once()

			_, api := humatest.New(t)
			handlers.RegisterOrderRoutes(api, handlers.NewOrdersHandler(mockStore))

			resp := api.Post("/api/v1/users/alice/orders")
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestOrdersHandler_List(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	expectAlice(mockStore)
	mockStore.EXPECT().ListOrders(mock.Anything, "u1").Return([]domain.Order{
		{OrderID: "o2", UserID: "u1"},
		{OrderID: "o1", UserID: "u1"},
	}, nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterOrderRoutes(api, handlers.NewOrdersHandler(mockStore))

	resp := api.Get("/api/v1/users/alice/orders")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"order_id":"o2"`)
}
