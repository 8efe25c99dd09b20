package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/slash/internal/metrics"
	notifyMocks "github.com/donaldgifford/slash/internal/notify/mocks"
	"github.com/donaldgifford/slash/internal/retail"
	storeMocks "github.com/donaldgifford/slash/internal/store/mocks"
	domain "github.com/donaldgifford/slash/pkg/types"
)

func item(title, price, site string) domain.RawItem {
	return domain.RawItem{
		Title:     title,
		Price:     price,
		Link:      "https://example.com/" + title,
		ImageLink: domain.NotAvailable,
		SiteName:  site,
	}
}

func TestFilter_PriceRange(t *testing.T) {
	t.Parallel()

	items := []domain.RawItem{
		item("a", "$49.99", "walmart"),
		item("b", "$75.00", "walmart"),
		item("c", "$150.00", "walmart"),
		item("d", "bad", "walmart"),
	}

	got, err := Filter(items, 50, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "$75.00", got[0].Price)
}

func TestFilter_Bounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		price  string
		lo, hi float64
		keep   bool
	}{
		{name: "lower bound inclusive", price: "50.00", lo: 50, hi: 100, keep: true},
		{name: "upper bound inclusive", price: "$100.00", lo: 50, hi: 100, keep: true},
		{name: "not available dropped", price: domain.NotAvailable, lo: 0, hi: 10000},
		{name: "no decimal part dropped", price: "$80", lo: 0, hi: 10000},
		{name: "internal listing format kept", price: "80", lo: 0, hi: 10000, keep: true},
		{name: "text around price", price: "Now $12.50 each", lo: 10, hi: 20, keep: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Filter([]domain.RawItem{item("x", tt.price, "target")}, tt.lo, tt.hi)
			require.NoError(t, err)
			if tt.keep {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilter_MalformedItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		items      []domain.RawItem
		wantIndex  int
		wantReason string
	}{
		{
			name:       "empty price",
			items:      []domain.RawItem{item("ok", "$10.00", "walmart"), item("bad", "", "walmart")},
			wantIndex:  1,
			wantReason: "empty price",
		},
		{
			name:       "empty site name",
			items:      []domain.RawItem{item("bad", "$10.00", "")},
			wantIndex:  0,
			wantReason: "empty site name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Filter(tt.items, 0, 10000)
			assert.Nil(t, got)
			require.ErrorIs(t, err, ErrMalformedItem)

			var fe *FilterError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantIndex, fe.Index)
			assert.Equal(t, tt.wantReason, fe.Reason)
		})
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	t.Parallel()

	got, err := Filter(nil, 0, 100)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch_MergesInRegistrationOrderThenListings(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mn := notifyMocks.NewMockNotifier(t)
	ms.EXPECT().FindListingsByName(mock.Anything, "lamp").Return([]domain.Listing{
		{ID: "l1", Name: "Used lamp", Price: 12},
	}, nil).Once()

	eng := newTestEngine(ms, mn,
		mockSource(t, domain.SiteWalmart, []domain.RawItem{
			item("w1", "$20.00", "walmart"),
			item("w2", "$99999.00", "walmart"),
		}, nil),
		mockSource(t, domain.SiteTarget, []domain.RawItem{
			item("t1", "$15.50", "target"),
		}, nil),
	)

	got, err := eng.Search(context.Background(), SearchRequest{
		Query:    "lamp",
		Site:     domain.SiteAll,
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
	})
	require.NoError(t, err)

	want := []domain.RawItem{
		item("w1", "$20.00", "walmart"),
		item("t1", "$15.50", "target"),
		{Title: "Used lamp", Price: "12", Link: domain.NotAvailable, SiteName: "slash"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_FailingSourceIsSkipped(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mn := notifyMocks.NewMockNotifier(t)
	ms.EXPECT().FindListingsByName(mock.Anything, "tv").Return(nil, nil).Once()

	failing := &retail.Error{Kind: retail.KindNetwork, Site: domain.SiteCostco, Err: errors.New("connection refused")}
	eng := newTestEngine(ms, mn,
		mockSource(t, domain.SiteWalmart, []domain.RawItem{item("w1", "$300.00", "walmart")}, nil),
		mockSource(t, domain.SiteCostco, nil, failing),
		mockSource(t, domain.SiteBestBuy, []domain.RawItem{item("b1", "$280.00", "bestbuy")}, nil),
	)

	before := ptestutil.ToFloat64(metrics.SourceFetchErrorsTotal.WithLabelValues("costco"))

	got, err := eng.Search(context.Background(), SearchRequest{Query: "tv", MaxPrice: DefaultMaxPrice})
	require.NoError(t, err)

	titles := make([]string, 0, len(got))
	for _, it := range got {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"w1", "b1"}, titles)
	assert.InDelta(t, before+1, ptestutil.ToFloat64(metrics.SourceFetchErrorsTotal.WithLabelValues("costco")), 0)
}

func TestSearch_ListingLookupFailureIsSkipped(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mn := notifyMocks.NewMockNotifier(t)
	ms.EXPECT().FindListingsByName(mock.Anything, "desk").Return(nil, errors.New("db down")).Once()

	eng := newTestEngine(ms, mn,
		mockSource(t, domain.SiteTarget, []domain.RawItem{item("t1", "$80.00", "target")}, nil),
	)

	got, err := eng.Search(context.Background(), SearchRequest{Query: "desk", MaxPrice: DefaultMaxPrice})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].Title)
}

func TestSearch_SingleSite(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mn := notifyMocks.NewMockNotifier(t)
	ms.EXPECT().FindListingsByName(mock.Anything, "chair").Return(nil, nil).Once()

	eng := newTestEngine(ms, mn,
		idleSource(t, domain.SiteWalmart),
		mockSource(t, domain.SiteTarget, []domain.RawItem{item("t1", "$45.00", "target")}, nil),
	)

	got, err := eng.Search(context.Background(), SearchRequest{Query: "chair", Site: "target", MaxPrice: 100})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "target", got[0].SiteName)
}

func TestSearch_UnknownSite(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mn := notifyMocks.NewMockNotifier(t)

	eng := newTestEngine(ms, mn, idleSource(t, domain.SiteWalmart))

	got, err := eng.Search(context.Background(), SearchRequest{Query: "x", Site: "amazon", MaxPrice: 100})
	require.ErrorIs(t, err, retail.ErrUnknownSite)
	assert.Nil(t, got)
}

func TestSearch_InvertedPriceRangeIsEmpty(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mn := notifyMocks.NewMockNotifier(t)
	ms.EXPECT().FindListingsByName(mock.Anything, "tv").Return([]domain.Listing{
		{ID: "l1", Name: "Old tv", Price: 75},
	}, nil).Once()

	eng := newTestEngine(ms, mn,
		mockSource(t, domain.SiteWalmart, []domain.RawItem{item("TV", "$75.00", "walmart")}, nil),
	)

	got, err := eng.Search(context.Background(), SearchRequest{Query: "tv", MinPrice: 100, MaxPrice: 50})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch_MalformedSourceItemFailsSearch(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mn := notifyMocks.NewMockNotifier(t)
	ms.EXPECT().FindListingsByName(mock.Anything, "phone").Return(nil, nil).Once()

	eng := newTestEngine(ms, mn,
		mockSource(t, domain.SiteBestBuy, []domain.RawItem{item("b1", "", "bestbuy")}, nil),
	)

	_, err := eng.Search(context.Background(), SearchRequest{Query: "phone", MaxPrice: DefaultMaxPrice})

	var fe *FilterError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "bestbuy", fe.Item.SiteName)
}

func TestSearch_Deterministic(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mn := notifyMocks.NewMockNotifier(t)
	ms.EXPECT().FindListingsByName(mock.Anything, "mug").Return([]domain.Listing{{Name: "mug", Price: 4.5}}, nil).Twice()

	eng := newTestEngine(ms, mn,
		mockSource(t, domain.SiteWalmart, []domain.RawItem{item("w1", "$5.00", "walmart"), item("w2", "$6.00", "walmart")}, nil),
		mockSource(t, domain.SiteTarget, []domain.RawItem{item("t1", "$7.00", "target")}, nil),
		mockSource(t, domain.SiteCostco, []domain.RawItem{item("c1", "$8.00", "costco")}, nil),
	)

	req := SearchRequest{Query: "mug", MinPrice: 1, MaxPrice: 50}
	first, err := eng.Search(context.Background(), req)
	require.NoError(t, err)
	second, err := eng.Search(context.Background(), req)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Search() differs (-first +second):\n%s", diff)
	}
	assert.Len(t, first, 5)
}

func TestListingsToItems(t *testing.T) {
	t.Parallel()

	got := ListingsToItems([]domain.Listing{
		{Name: "Bike", Price: 120.5},
		{Name: "Helmet", Price: 30},
	})

	want := []domain.RawItem{
		{Title: "Bike", Price: "120.5", Link: domain.NotAvailable, SiteName: "slash"},
		{Title: "Helmet", Price: "30", Link: domain.NotAvailable, SiteName: "slash"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListingsToItems() mismatch (-want +got):\n%s", diff)
	}

	assert.NotNil(t, ListingsToItems(nil))
}
