package retail_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/slash/internal/retail"
	domain "github.com/donaldgifford/slash/pkg/types"
)

type stubSource struct{ site domain.Site }

func (s stubSource) Name() domain.Site { return s.site }

func (stubSource) Fetch(context.Context, string) ([]domain.RawItem, error) { return nil, nil }

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	reg := retail.NewRegistry(
		stubSource{domain.SiteWalmart},
		stubSource{domain.SiteTarget},
		stubSource{domain.SiteEbay},
	)

	tests := []struct {
		name     string
		selector string
		want     []domain.Site
		wantErr  bool
	}{
		{name: "all selects every source in order", selector: "all", want: []domain.Site{"walmart", "target", "ebay"}},
		{name: "empty selects every source", selector: "", want: []domain.Site{"walmart", "target", "ebay"}},
		{name: "single site", selector: "target", want: []domain.Site{"target"}},
		{name: "selector is case insensitive", selector: " Walmart ", want: []domain.Site{"walmart"}},
		{name: "known but unregistered site", selector: "costco", wantErr: true},
		{name: "unknown site", selector: "amazon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reg.Resolve(tt.selector)
			if tt.wantErr {
				require.ErrorIs(t, err, retail.ErrUnknownSite)
				assert.Contains(t, err.Error(), tt.selector)
				return
			}

			require.NoError(t, err)
			names := make([]domain.Site, 0, len(got))
			for _, s := range got {
				names = append(names, s.Name())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestRegistry_ResolveReturnsCopy(t *testing.T) {
	t.Parallel()

	reg := retail.NewRegistry(stubSource{domain.SiteWalmart}, stubSource{domain.SiteTarget})

	got, err := reg.Resolve("all")
	require.NoError(t, err)
	got[0] = stubSource{domain.SiteCostco}

	assert.Equal(t, []domain.Site{"walmart", "target"}, reg.Names())
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	statusErr := &retail.Error{Kind: retail.KindStatus, Site: domain.SiteCostco, StatusCode: 503, Err: assert.AnError}
	assert.Contains(t, statusErr.Error(), "costco: unexpected status 503")

	parseErr := &retail.Error{Kind: retail.KindParse, Site: domain.SiteTarget, Err: assert.AnError}
	assert.Contains(t, parseErr.Error(), "target: parse error")
	assert.ErrorIs(t, parseErr, assert.AnError)
}

func TestNewRegistry_CopiesSources(t *testing.T) {
	t.Parallel()

	sources := []retail.Source{stubSource{domain.SiteWalmart}, stubSource{domain.SiteTarget}}
	reg := retail.NewRegistry(sources...)

	sources[0] = stubSource{domain.SiteCostco}

	assert.Equal(t, []domain.Site{"walmart", "target"}, reg.Names())
}
