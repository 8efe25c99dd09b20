package ebay_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/donaldgifford/slash/internal/ebay"
	domain "github.com/donaldgifford/slash/pkg/types"
)

func TestToRawItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []ebay.ItemSummary
		want  []domain.RawItem
	}{
		{
			name:  "empty input returns empty slice",
			items: nil,
			want:  []domain.RawItem{},
		},
		{
			name: "complete item converts all fields",
			items: []ebay.ItemSummary{
				{
					ItemID:     "v1|123456|0",
					Title:      "Keychron K2 Mechanical Keyboard",
					Price:      &ebay.ItemPrice{Value: "79.99", Currency: "USD"},
					ItemWebURL: "https://www.ebay.com/itm/123456",
					Image:      &ebay.ItemImage{ImageURL: "https://i.ebayimg.com/images/123.jpg"},
				},
			},
			want: []domain.RawItem{
				{
					Title:     "Keychron K2 Mechanical Keyboard",
					Price:     "79.99",
					Link:      "https://www.ebay.com/itm/123456",
					ImageLink: "https://i.ebayimg.com/images/123.jpg",
					SiteName:  "ebay",
				},
			},
		},
		{
			name: "missing fields become N/A",
			items: []ebay.ItemSummary{
				{ItemID: "v1|789|0"},
				{ItemID: "v1|790|0", Price: &ebay.ItemPrice{}, Image: &ebay.ItemImage{}},
			},
			want: []domain.RawItem{
				{Title: "N/A", Price: "N/A", Link: "N/A", ImageLink: "N/A", SiteName: "ebay"},
				{Title: "N/A", Price: "N/A", Link: "N/A", ImageLink: "N/A", SiteName: "ebay"},
			},
		},
		{
			name: "order is preserved",
			items: []ebay.ItemSummary{
				{Title: "first", Price: &ebay.ItemPrice{Value: "1.00"}, ItemWebURL: "a"},
				{Title: "second", Price: &ebay.ItemPrice{Value: "2.00"}, ItemWebURL: "b"},
			},
			want: []domain.RawItem{
				{Title: "first", Price: "1.00", Link: "a", ImageLink: "N/A", SiteName: "ebay"},
				{Title: "second", Price: "2.00", Link: "b", ImageLink: "N/A", SiteName: "ebay"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, ebay.ToRawItems(tt.items)); diff != "" {
				t.Errorf("ToRawItems() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
