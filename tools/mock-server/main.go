// Package main implements a mock retailer server for local development.
// It serves search results from a JSON product catalog in the formats the
// slash sources consume: Walmart, Costco, and Best Buy search pages, Target's
// search API, and the eBay Browse API with its OAuth token endpoint.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type product struct {
	Site  string  `json:"site"`
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

type catalog struct {
	Products []product `json:"products"`
}

// search returns the site's products whose title contains q, with the
// discount percentage applied to every price.
func (c *catalog) search(site, q string, discount float64) []product {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []product{}
	for _, p := range c.Products {
		if p.Site != site {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		p.Price = p.Price * (100 - discount) / 100
		out = append(out, p)
	}
	return out
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	catalogFile := flag.String("catalog", "tools/mock-server/testdata/catalog.json", "path to product catalog")
	discount := flag.Float64("discount", 0, "percentage taken off every catalog price, for exercising alerts")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cat, err := loadCatalog(*catalogFile)
	if err != nil {
		logger.Error("failed to load catalog", "path", *catalogFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded catalog", "products", len(cat.Products), "discount", *discount)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock retailer server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, cat, *discount)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, cat *catalog, discount float64) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", pageHandler(logger, cat, "walmart", "q", walmartPage, discount))
	mux.HandleFunc("GET /CatalogSearch", pageHandler(logger, cat, "costco", "keyword", costcoPage, discount))
	mux.HandleFunc("GET /site/searchpage.jsp", pageHandler(logger, cat, "bestbuy", "st", bestBuyPage, discount))
	mux.HandleFunc("GET /redsky_aggregations/v1/web/plp_search_v2", targetHandler(logger, cat, discount))
	mux.HandleFunc("POST /identity/v1/oauth2/token", tokenHandler(logger))
	mux.HandleFunc("GET /buy/browse/v1/item_summary/search", browseHandler(logger, cat, discount))
	return mux
}

func loadCatalog(path string) (*catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // catalog path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &c, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
}

var (
	walmartPage = template.Must(template.New("walmart").Funcs(funcs).Parse(`<!doctype html>
<html><body><div id="results">
{{range .}}<div data-item-id="{{.ID}}">
  <a link-identifier="{{.ID}}" href="/ip/{{.ID}}"><img data-testid="productTileImage" src="{{.Image}}"></a>
  <span data-automation-id="product-title">{{.Title}}</span>
  <div data-automation-id="product-price"><span class="w_iUH7">{{money .Price}}</span></div>
</div>
{{end}}</div></body></html>`))

	costcoPage = template.Must(template.New("costco").Funcs(funcs).Parse(`<!doctype html>
<html><body>
{{range .}}<div class="product-tile-set">
  <img class="img-responsive" src="{{.Image}}">
  <span class="description"><a href="/p/{{.ID}}.product.html">{{.Title}}</a></span>
  <div class="price">{{money .Price}}</div>
</div>
{{end}}</body></html>`))

	bestBuyPage = template.Must(template.New("bestbuy").Funcs(funcs).Parse(`<!doctype html>
<html><body><ol class="sku-item-list">
{{range .}}<li class="sku-item">
  <img class="product-image" src="{{.Image}}">
  <h4 class="sku-title"><a href="/site/{{.ID}}.p">{{.Title}}</a></h4>
  <div class="priceView-customer-price"><span aria-hidden="true">{{money .Price}}</span></div>
</li>
{{end}}</ol></body></html>`))
)

func pageHandler(
	logger *slog.Logger,
	cat *catalog,
	site, param string,
	page *template.Template,
	discount float64,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matched := cat.search(site, r.URL.Query().Get(param), discount)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, matched); err != nil {
			logger.Error("rendering page", "site", site, "error", err)
			return
		}
		logger.Info("search", "site", site, "query", r.URL.Query().Get(param), "matched", len(matched))
	}
}

func targetHandler(logger *slog.Logger, cat *catalog, discount float64) http.HandlerFunc {
	type targetProduct struct {
		Item struct {
			ProductDescription struct {
				Title string `json:"title"`
			} `json:"product_description"`
			Enrichment struct {
				BuyURL string `json:"buy_url"`
				Images struct {
					PrimaryImageURL string `json:"primary_image_url"`
				} `json:"images"`
			} `json:"enrichment"`
		} `json:"item"`
		Price struct {
			FormattedCurrentPrice string `json:"formatted_current_price"`
		} `json:"price"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		matched := cat.search("target", r.URL.Query().Get("keyword"), discount)
		products := make([]targetProduct, len(matched))
		for i, p := range matched {
			products[i].Item.ProductDescription.Title = p.Title
			products[i].Item.Enrichment.BuyURL = "/p/-/A-" + p.ID
			products[i].Item.Enrichment.Images.PrimaryImageURL = p.Image
			products[i].Price.FormattedCurrentPrice = fmt.Sprintf("$%.2f", p.Price)
		}

		var resp struct {
			Data struct {
				Search struct {
					Products []targetProduct `json:"products"`
				} `json:"search"`
			} `json:"data"`
		}
		resp.Data.Search.Products = products

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("search", "site", "target", "query", r.URL.Query().Get("keyword"), "matched", len(matched))
	}
}

func tokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Credentials are required but not checked.
		if _, _, ok := r.BasicAuth(); !ok {
			logger.Warn("token request missing Basic Auth header")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_client",
				"error_description": "client authentication failed",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "mock-token-v1-" + strconv.FormatInt(int64(os.Getpid()), 16),
			"expires_in":   7200,
			"token_type":   "Application Access Token",
		})
		logger.Info("issued mock token")
	}
}

type browseItem struct {
	ItemID     string `json:"itemId"`
	Title      string `json:"title"`
	ItemWebURL string `json:"itemWebUrl"`
	Condition  string `json:"condition"`
	Price      struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"price"`
	Image struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
}

type browseResponse struct {
	ItemSummaries []browseItem `json:"itemSummaries"`
	Total         int          `json:"total"`
	Offset        int          `json:"offset"`
	Limit         int          `json:"limit"`
}

func browseHandler(logger *slog.Logger, cat *catalog, discount float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		limit := 50
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
			limit = v
		}
		offset := 0
		if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
			offset = v
		}

		matched := cat.search("ebay", r.URL.Query().Get("q"), discount)
		total := len(matched)
		if offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[offset:min(offset+limit, len(matched))]
		}

		resp := browseResponse{
			ItemSummaries: make([]browseItem, len(matched)),
			Total:         total,
			Offset:        offset,
			Limit:         limit,
		}
		for i, p := range matched {
			it := &resp.ItemSummaries[i]
			it.ItemID = p.ID
			it.Title = p.Title
			it.ItemWebURL = "https://www.ebay.com/itm/" + p.ID
			it.Condition = "Used"
			it.Price.Value = strconv.FormatFloat(p.Price, 'f', 2, 64)
			it.Price.Currency = "USD"
			it.Image.ImageURL = p.Image
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("search", "site", "ebay", "query", r.URL.Query().Get("q"), "matched", total, "returned", len(matched))
	}
}
