package notify

import (
	"fmt"

	"github.com/donaldgifford/slash/pkg/price"
	domain "github.com/donaldgifford/slash/pkg/types"
)

const (
	subjectDrops   = "Price drop alert"
	subjectNoDrops = "No price drops today"
)

func subject(items []domain.AlertItem) string {
	if len(items) == 0 {
		return subjectNoDrops
	}
	return subjectDrops
}

func usd(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// livePrice renders an alert item's price. Item prices are canonical numbers
// but fall back to the raw text if they do not parse.
func livePrice(item *domain.AlertItem) string {
	if v, ok := price.Parse(item.Price); ok {
		return usd(v)
	}
	return item.Price
}

// discountPct is the drop below the reference price as a percentage.
func discountPct(item *domain.AlertItem) float64 {
	v, ok := price.Parse(item.Price)
	if !ok || item.ReferencePrice <= 0 {
		return 0
	}
	return (item.ReferencePrice - v) / item.ReferencePrice * 100
}

func hasLink(s string) bool {
	return s != "" && s != domain.NotAvailable
}
