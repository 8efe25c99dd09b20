package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/slash/internal/metrics"
	"github.com/donaldgifford/slash/internal/retail"
	"github.com/donaldgifford/slash/internal/store"
	"github.com/donaldgifford/slash/pkg/price"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// Price bounds applied by callers when a search request leaves them unset.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 10000
)

// ErrMalformedItem marks a source result that breaks the RawItem contract.
var ErrMalformedItem = errors.New("malformed item")

// SearchRequest selects sources and bounds the accepted price range.
type SearchRequest struct {
	Query    string
	Site     string // site name, "all" or empty
	MinPrice float64
	MaxPrice float64
}

// FetchResult is the outcome of querying one source.
type FetchResult struct {
	Site  domain.Site
	Items []domain.RawItem
	Err   error
}

// FilterError reports the first merged item that violates the RawItem
// contract. The whole search fails when one is found.
type FilterError struct {
	Index  int
	Item   domain.RawItem
	Reason string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filtering results: item %d from %q: %s", e.Index, e.Item.SiteName, e.Reason)
}

func (e *FilterError) Unwrap() error {
	return ErrMalformedItem
}

// Search queries the selected sources concurrently, appends matching internal
// listings, and keeps the items whose parsed price lies in
// [MinPrice, MaxPrice]. Failing sources are logged and skipped. Results keep
// source registration order, then internal listings.
func (eng *Engine) Search(ctx context.Context, req SearchRequest) ([]domain.RawItem, error) {
	start := time.Now()
	metrics.SearchRequestsTotal.Inc()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	ctx, span := eng.tracer.Start(ctx, "engine.Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.query", req.Query),
		attribute.String("search.site", req.Site),
	)

	sources, err := eng.sources.Resolve(req.Site)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// The internal listings lookup runs alongside the retailers as the last slot.
	sources = append(sources, &listingSource{store: eng.store})

	results := eng.fetchAll(ctx, sources, req.Query)

	var merged []domain.RawItem
	for _, r := range results {
		if r.Err != nil {
			eng.log.Warn("source fetch failed, skipping",
				"site", r.Site,
				"query", req.Query,
				"error", r.Err,
			)
			metrics.SourceFetchErrorsTotal.WithLabelValues(string(r.Site)).Inc()
			continue
		}
		metrics.SourceItemsTotal.WithLabelValues(string(r.Site)).Add(float64(len(r.Items)))
		merged = append(merged, r.Items...)
	}

	filtered, err := Filter(merged, req.MinPrice, req.MaxPrice)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("search.merged", len(merged)),
		attribute.Int("search.results", len(filtered)),
	)
	eng.log.Debug("search complete",
		"query", req.Query,
		"site", req.Site,
		"merged", len(merged),
		"results", len(filtered),
	)

	return filtered, nil
}

// fetchAll invokes every source at most eng.concurrency at a time. Each
// goroutine writes only its own result slot.
func (eng *Engine) fetchAll(ctx context.Context, sources []retail.Source, query string) []FetchResult {
	results := make([]FetchResult, len(sources))

	var g errgroup.Group
	g.SetLimit(eng.concurrency)

	for i, src := range sources {
		g.Go(func() error {
			results[i] = eng.fetchOne(ctx, src, query)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (eng *Engine) fetchOne(ctx context.Context, src retail.Source, query string) FetchResult {
	ctx, span := eng.tracer.Start(ctx, "engine.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("source.site", string(src.Name())))

	items, err := src.Fetch(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return FetchResult{Site: src.Name(), Err: err}
	}

	span.SetAttributes(attribute.Int("source.items", len(items)))
	return FetchResult{Site: src.Name(), Items: items}
}

// Filter validates every item and returns those whose parsed price lies in
// [lo, hi], preserving order. Items without a parseable price are dropped.
// An item with an empty Price or SiteName fails the whole call with a
// *FilterError. The result is never nil.
func Filter(items []domain.RawItem, lo, hi float64) ([]domain.RawItem, error) {
	for i := range items {
		switch {
		case items[i].Price == "":
			return nil, &FilterError{Index: i, Item: items[i], Reason: "empty price"}
		case items[i].SiteName == "":
			return nil, &FilterError{Index: i, Item: items[i], Reason: "empty site name"}
		}
	}

	out := make([]domain.RawItem, 0, len(items))
	for _, item := range items {
		v, ok := price.Parse(item.Price)
		if !ok || !price.InRange(v, lo, hi) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// listingSource exposes the marketplace's own unsold listings as a source.
type listingSource struct {
	store store.Store
}

func (l *listingSource) Name() domain.Site { return domain.SiteInternal }

func (l *listingSource) Fetch(ctx context.Context, query string) ([]domain.RawItem, error) {
	listings, err := l.store.FindListingsByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("finding listings: %w", err)
	}
	return ListingsToItems(listings), nil
}

// ListingsToItems projects internal listings into the RawItem shape used by
// search results.
func ListingsToItems(listings []domain.Listing) []domain.RawItem {
	items := make([]domain.RawItem, 0, len(listings))
	for i := range listings {
		items = append(items, domain.RawItem{
			Title:     listings[i].Name,
			Price:     price.Format(listings[i].Price),
			Link:      domain.NotAvailable,
			ImageLink: "",
			SiteName:  string(domain.SiteInternal),
		})
	}
	return items
}
