package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/slash/internal/ebay"
	"github.com/donaldgifford/slash/internal/retail"
	domain "github.com/donaldgifford/slash/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, discount float64) *httptest.Server {
	t.Helper()

	cat, err := loadCatalog(filepath.Join("testdata", "catalog.json"))
	require.NoError(t, err)

	srv := httptest.NewServer(newMux(testLogger(), cat, discount))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	cat, err := loadCatalog(filepath.Join("testdata", "catalog.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Products)

	_, err = loadCatalog(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)
}

func TestCatalog_Search(t *testing.T) {
	t.Parallel()

	cat := &catalog{Products: []product{
		{Site: "walmart", Title: "Sony Headphones", Price: 100},
		{Site: "walmart", Title: "Samsung TV", Price: 300},
		{Site: "costco", Title: "Sony Headphones", Price: 90},
	}}

	got := cat.search("walmart", "SONY", 25)
	require.Len(t, got, 1)
	assert.Equal(t, "Sony Headphones", got[0].Title)
	assert.InDelta(t, 75.0, got[0].Price, 0.001)

	assert.Len(t, cat.search("walmart", "", 0), 2)
	assert.Empty(t, cat.search("bestbuy", "sony", 0))
	assert.InDelta(t, 100.0, cat.Products[0].Price, 0.001, "catalog must not be modified")
}

// The scrapers must parse what the mock serves, so the HTML sources are run
// against it directly.
func TestHTMLSourcesParseMockPages(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, 0)

	tests := []struct {
		name      string
		source    retail.Source
		wantTitle string
		wantPrice string
		wantLink  string
	}{
		{
			name:      "walmart",
			source:    retail.NewWalmart(srv.URL + "/search"),
			wantTitle: "Sony WH-1000XM5 Wireless Noise Canceling Headphones",
			wantPrice: "$329.99",
			wantLink:  srv.URL + "/ip/5401",
		},
		{
			name:      "costco",
			source:    retail.NewCostco(srv.URL + "/CatalogSearch"),
			wantTitle: "Sony WH-1000XM5 Headphones Bundle",
			wantPrice: "$299.99",
			wantLink:  srv.URL + "/p/1001.product.html",
		},
		{
			name:      "bestbuy",
			source:    retail.NewBestBuy(srv.URL + "/site/searchpage.jsp"),
			wantTitle: "Sony WH-1000XM5 Wireless Headphones - Black",
			wantPrice: "$339.99",
			wantLink:  srv.URL + "/site/6505.p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			items, err := tt.source.Fetch(context.Background(), "xm5")
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tt.wantTitle, items[0].Title)
			assert.Equal(t, tt.wantPrice, items[0].Price)
			assert.Equal(t, tt.wantLink, items[0].Link)
			assert.Equal(t, tt.name, items[0].SiteName)
		})
	}
}

func TestTargetSourceParsesMockAPI(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, 10)
	src := retail.NewTarget(srv.URL+"/redsky_aggregations/v1/web/plp_search_v2", "test-key", "911")

	items, err := src.Fetch(context.Background(), "switch")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Nintendo Switch OLED Console", items[0].Title)
	assert.Equal(t, "$305.99", items[0].Price)
	assert.Equal(t, "https://www.target.com/p/-/A-8802", items[0].Link)
}

func TestTargetHandler_MissingKey(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, 0)
	resp, err := http.Get(srv.URL + "/redsky_aggregations/v1/web/plp_search_v2?keyword=tv")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEbaySourceParsesMockAPI(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, 0)
	tokens := ebay.NewOAuthTokenProvider("app-id", "cert-id",
		ebay.WithTokenURL(srv.URL+"/identity/v1/oauth2/token"))
	client := ebay.NewBrowseClient(tokens,
		ebay.WithBrowseURL(srv.URL+"/buy/browse/v1/item_summary/search"))

	items, err := retail.NewEbay(client, 10).Fetch(context.Background(), "nintendo")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Nintendo Switch OLED White Bundle", items[0].Title)
	assert.Equal(t, "280.00", items[0].Price)
	assert.Equal(t, string(domain.SiteEbay), items[0].SiteName)
}

func TestTokenHandler(t *testing.T) {
	t.Parallel()

	t.Run("issues token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/identity/v1/oauth2/token", http.NoBody)
		req.SetBasicAuth("app-id", "cert-id")
		w := httptest.NewRecorder()

		tokenHandler(testLogger())(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.NotEmpty(t, resp["access_token"])
		assert.InDelta(t, 7200.0, resp["expires_in"], 0.001)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/identity/v1/oauth2/token", http.NoBody)
		w := httptest.NewRecorder()

		tokenHandler(testLogger())(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_client")
	})
}

func TestBrowseHandler_Pagination(t *testing.T) {
	t.Parallel()

	cat, err := loadCatalog(filepath.Join("testdata", "catalog.json"))
	require.NoError(t, err)
	h := browseHandler(testLogger(), cat, 0)

	tests := []struct {
		name      string
		query     string
		wantTotal int
		wantLen   int
	}{
		{name: "all", query: "", wantTotal: 2, wantLen: 2},
		{name: "first page", query: "?limit=1", wantTotal: 2, wantLen: 1},
		{name: "past the end", query: "?offset=5", wantTotal: 2, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/buy/browse/v1/item_summary/search"+tt.query, http.NoBody)
			req.Header.Set("Authorization", "Bearer mock")
			w := httptest.NewRecorder()

			h(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var resp browseResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantTotal, resp.Total)
			assert.Len(t, resp.ItemSummaries, tt.wantLen)
		})
	}
}
