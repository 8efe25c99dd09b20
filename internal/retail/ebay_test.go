package retail_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/slash/internal/ebay"
	ebayMocks "github.com/donaldgifford/slash/internal/ebay/mocks"
	"github.com/donaldgifford/slash/internal/retail"
	domain "github.com/donaldgifford/slash/pkg/types"
)

func TestEbaySource_Fetch(t *testing.T) {
	t.Parallel()

	client := ebayMocks.NewMockEbayClient(t)
	client.EXPECT().
		Search(mock.Anything, ebay.SearchRequest{Query: "headphones", Limit: 25}).
		Return(&ebay.SearchResponse{
			Items: []ebay.ItemSummary{
				{Title: "Studio Headphones", Price: &ebay.ItemPrice{Value: "59.00"}, ItemWebURL: "https://ebay.com/1"},
			},
			Total: 1,
		}, nil).
		Once()

	src := retail.NewEbay(client, 25)
	assert.Equal(t, domain.SiteEbay, src.Name())

	items, err := src.Fetch(context.Background(), "headphones")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "59.00", items[0].Price)
	assert.Equal(t, "ebay", items[0].SiteName)
}

func TestEbaySource_Fetch_ClassifiesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantKind retail.ErrorKind
	}{
		{name: "api status", err: &ebay.APIError{StatusCode: 429}, wantKind: retail.KindStatus},
		{name: "malformed body", err: ebay.ErrMalformedResponse, wantKind: retail.KindParse},
		{name: "transport", err: errors.New("connection refused"), wantKind: retail.KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := ebayMocks.NewMockEbayClient(t)
			client.EXPECT().
				Search(mock.Anything, mock.Anything).
				Return(nil, tt.err).
				Once()

			_, err := retail.NewEbay(client, 10).Fetch(context.Background(), "x")
			var rerr *retail.Error
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.wantKind, rerr.Kind)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
