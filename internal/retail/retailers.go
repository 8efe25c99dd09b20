package retail

import (
	domain "github.com/donaldgifford/slash/pkg/types"
)

// NewWalmart creates the Walmart search page scraper.
func NewWalmart(searchURL string, opts ...Option) *HTMLSource {
	return NewHTMLSource(domain.SiteWalmart, searchURL, "q", Selectors{
		Item:  `div[data-item-id]`,
		Title: `span[data-automation-id="product-title"]`,
		Price: `div[data-automation-id="product-price"] span.w_iUH7`,
		Link:  `a[link-identifier]`,
		Image: `img[data-testid="productTileImage"]`,
	}, opts...)
}

// NewCostco creates the Costco search page scraper.
func NewCostco(searchURL string, opts ...Option) *HTMLSource {
	return NewHTMLSource(domain.SiteCostco, searchURL, "keyword", Selectors{
		Item:  `div.product-tile-set`,
		Title: `span.description a`,
		Price: `div.price`,
		Link:  `span.description a`,
		Image: `img.img-responsive`,
	}, opts...)
}

// NewBestBuy creates the Best Buy search page scraper.
func NewBestBuy(searchURL string, opts ...Option) *HTMLSource {
	return NewHTMLSource(domain.SiteBestBuy, searchURL, "st", Selectors{
		Item:  `li.sku-item`,
		Title: `h4.sku-title a`,
		Price: `div.priceView-customer-price span[aria-hidden="true"]`,
		Link:  `h4.sku-title a`,
		Image: `img.product-image`,
	}, opts...)
}
