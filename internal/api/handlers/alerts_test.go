package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/slash/internal/api/handlers"
	"github.com/donaldgifford/slash/internal/engine"
	"github.com/donaldgifford/slash/internal/store"
	domain "github.com/donaldgifford/slash/pkg/types"
)

type fakeEvaluator struct {
	report  *engine.AlertReport
	summary engine.PassSummary
	err     error
}

func (f *fakeEvaluator) EvaluateAlertsForUser(_ context.Context, _ string) (*engine.AlertReport, error) {
	return f.report, f.err
}

func (f *fakeEvaluator) RunAlertPassForAllUsers(_ context.Context) (engine.PassSummary, error) {
	return f.summary, f.err
}

func TestAlertsHandler_EvaluateUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ev         *fakeEvaluator
		wantStatus int
		wantBody   string
	}{
		{
			name: "returns report",
			ev: &fakeEvaluator{report: &engine.AlertReport{
				Username:  "alice",
				Recipient: "alice@example.com",
				Items: []domain.AlertItem{{
					RawItem:        domain.RawItem{Title: "Headphones", Price: "80.00", SiteName: "walmart"},
					ReferencePrice: 100,
				}},
				Delivered: true,
			}},
			wantStatus: http.StatusOK,
			wantBody:   `"reference_price":100`,
		},
		{
			name: "delivery failure is still 200",
			ev: &fakeEvaluator{report: &engine.AlertReport{
				Username:      "alice",
				Items:         []domain.AlertItem{},
				DeliveryError: "smtp: connection refused",
			}},
			wantStatus: http.StatusOK,
			wantBody:   `"delivery_error":"smtp: connection refused"`,
		},
		{
			name:       "unknown user returns 404",
			ev:         &fakeEvaluator{err: fmt.Errorf("%w: %s: %w", engine.ErrUserNotFound, "ghost", store.ErrNotFound)},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wishlist failure returns 500",
			ev:         &fakeEvaluator{err: errors.New("loading wishlist: db down")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterAlertRoutes(api, handlers.NewAlertsHandler(tt.ev))

			resp := api.Post("/api/v1/users/alice/alerts")
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAlertsHandler_RunPass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ev         *fakeEvaluator
		wantStatus int
		wantBody   string
	}{
		{
			name:       "returns summary",
			ev:         &fakeEvaluator{summary: engine.PassSummary{Users: 3, Failed: 1, Alerts: 4, Delivered: 2}},
			wantStatus: http.StatusOK,
			wantBody:   `"failed":1`,
		},
		{
			name:       "listing users fails",
			ev:         &fakeEvaluator{err: errors.New("listing users: db down")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `alert pass failed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterAlertRoutes(api, handlers.NewAlertsHandler(tt.ev))

			resp := api.Post("/api/v1/alerts/run")
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}
