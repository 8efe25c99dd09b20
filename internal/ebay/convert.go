package ebay

import (
	domain "github.com/donaldgifford/slash/pkg/types"
)

// ToRawItems converts eBay API item summaries into search results. Fields the
// API omitted are reported as domain.NotAvailable.
func ToRawItems(items []ItemSummary) []domain.RawItem {
	out := make([]domain.RawItem, 0, len(items))
	for i := range items {
		out = append(out, toRawItem(&items[i]))
	}
	return out
}

func toRawItem(item *ItemSummary) domain.RawItem {
	r := domain.RawItem{
		Title:     orNotAvailable(item.Title),
		Price:     domain.NotAvailable,
		Link:      orNotAvailable(item.ItemWebURL),
		ImageLink: domain.NotAvailable,
		SiteName:  string(domain.SiteEbay),
	}

	if item.Price != nil && item.Price.Value != "" {
		r.Price = item.Price.Value
	}

	if item.Image != nil && item.Image.ImageURL != "" {
		r.ImageLink = item.Image.ImageURL
	}

	return r
}

func orNotAvailable(s string) string {
	if s == "" {
		return domain.NotAvailable
	}
	return s
}
