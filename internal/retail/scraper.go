package retail

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// Selectors are the CSS selectors locating each field of a result tile. Field
// selectors are evaluated relative to the Item selection.
type Selectors struct {
	Item  string
	Title string
	Price string
	Link  string
	Image string
}

// HTMLSource scrapes a retailer's server-rendered search page.
type HTMLSource struct {
	site       domain.Site
	searchURL  string
	queryParam string
	selectors  Selectors
	client     *resty.Client
}

// NewHTMLSource creates a selector-driven scraper. The query is sent as the
// queryParam parameter of searchURL.
func NewHTMLSource(
	site domain.Site,
	searchURL, queryParam string,
	selectors Selectors,
	opts ...Option,
) *HTMLSource {
	return &HTMLSource{
		site:       site,
		searchURL:  searchURL,
		queryParam: queryParam,
		selectors:  selectors,
		client:     newRestyClient(opts),
	}
}

// Name implements Source.
func (s *HTMLSource) Name() domain.Site { return s.site }

// Fetch implements Source.
func (s *HTMLSource) Fetch(ctx context.Context, query string) ([]domain.RawItem, error) {
	doc, err := fetchDocument(ctx, s.client, s.site, s.searchURL, map[string]string{
		s.queryParam: query,
	})
	if err != nil {
		return nil, err
	}

	items := []domain.RawItem{}
	doc.Find(s.selectors.Item).Each(func(_ int, tile *goquery.Selection) {
		items = append(items, s.extract(tile))
	})
	return items, nil
}

func (s *HTMLSource) extract(tile *goquery.Selection) domain.RawItem {
	return domain.RawItem{
		Title:     orNotAvailable(titleOf(tile.Find(s.selectors.Title).First())),
		Price:     orNotAvailable(collapseSpace(tile.Find(s.selectors.Price).First().Text())),
		Link:      orNotAvailable(s.resolve(attrOf(tile.Find(s.selectors.Link).First(), "href"))),
		ImageLink: orNotAvailable(s.resolve(attrOf(tile.Find(s.selectors.Image).First(), "src", "data-src"))),
		SiteName:  string(s.site),
	}
}

// resolve makes a relative link absolute against the search page URL.
func (s *HTMLSource) resolve(ref string) string {
	if ref == "" {
		return ""
	}
	base, err := url.Parse(s.searchURL)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func titleOf(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	if t, ok := sel.Attr("title"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return collapseSpace(sel.Text())
}

func attrOf(sel *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v, ok := sel.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orNotAvailable(s string) string {
	if s == "" {
		return domain.NotAvailable
	}
	return s
}
