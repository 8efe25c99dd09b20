package retail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	domain "github.com/donaldgifford/slash/pkg/types"
)

const targetProductBase = "https://www.target.com"

// TargetSource queries Target's product search API.
type TargetSource struct {
	searchURL string
	apiKey    string
	storeID   string
	client    *resty.Client
}

// NewTarget creates the Target search API adapter.
func NewTarget(searchURL, apiKey, storeID string, opts ...Option) *TargetSource {
	return &TargetSource{
		searchURL: searchURL,
		apiKey:    apiKey,
		storeID:   storeID,
		client:    newRestyClient(opts),
	}
}

type targetResponse struct {
	Data struct {
		Search struct {
			Products []targetProduct `json:"products"`
		} `json:"search"`
	} `json:"data"`
}

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

// Name implements Source.
func (s *TargetSource) Name() domain.Site { return domain.SiteTarget }

// Fetch implements Source.
func (s *TargetSource) Fetch(ctx context.Context, query string) ([]domain.RawItem, error) {
	resp, err := get(ctx, s.client, domain.SiteTarget, s.searchURL, map[string]string{
		"keyword":          query,
		"key":              s.apiKey,
		"pricing_store_id": s.storeID,
		"channel":          "WEB",
		"count":            "24",
		"page":             "/s/" + query,
	}, "application/json")
	if err != nil {
		return nil, err
	}

	var body targetResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &Error{
			Kind: KindParse,
			Site: domain.SiteTarget,
			Err:  fmt.Errorf("decoding search response: %w", err),
		}
	}

	items := make([]domain.RawItem, 0, len(body.Data.Search.Products))
	for i := range body.Data.Search.Products {
		p := &body.Data.Search.Products[i]
		link := p.Item.Enrichment.BuyURL
		if link != "" && link[0] == '/' {
			link = targetProductBase + link
		}
		items = append(items, domain.RawItem{
			Title:     orNotAvailable(p.Item.ProductDescription.Title),
			Price:     orNotAvailable(p.Price.FormattedCurrentPrice),
			Link:      orNotAvailable(link),
			ImageLink: orNotAvailable(p.Item.Enrichment.Images.PrimaryImageURL),
			SiteName:  string(domain.SiteTarget),
		})
	}
	return items, nil
}
