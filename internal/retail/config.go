package retail

import (
	"fmt"

	"github.com/donaldgifford/slash/internal/config"
	"github.com/donaldgifford/slash/internal/ebay"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// SourcesFromConfig builds the enabled sources in configured order.
func SourcesFromConfig(cfg *config.SourcesConfig) ([]Source, error) {
	opts := []Option{
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
	}

	sources := make([]Source, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		switch domain.Site(name) {
		case domain.SiteWalmart:
			sources = append(sources, NewWalmart(cfg.Walmart.SearchURL, opts...))
		case domain.SiteTarget:
			sources = append(sources, NewTarget(
				cfg.Target.SearchURL, cfg.Target.APIKey, cfg.Target.StoreID, opts...,
			))
		case domain.SiteCostco:
			sources = append(sources, NewCostco(cfg.Costco.SearchURL, opts...))
		case domain.SiteBestBuy:
			sources = append(sources, NewBestBuy(cfg.BestBuy.SearchURL, opts...))
		case domain.SiteEbay:
			tokens := ebay.NewOAuthTokenProvider(
				cfg.Ebay.AppID, cfg.Ebay.CertID,
				ebay.WithTokenURL(cfg.Ebay.TokenURL),
			)
			client := ebay.NewBrowseClient(
				tokens,
				ebay.WithBrowseURL(cfg.Ebay.BrowseURL),
				ebay.WithMarketplace(cfg.Ebay.Marketplace),
				ebay.WithBrowseTimeout(cfg.Timeout),
			)
			sources = append(sources, NewEbay(client, cfg.Ebay.Limit))
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSite, name)
		}
	}
	return sources, nil
}
