// Package retail implements the retailer source adapters that turn a search
// query into raw items, and the registry that selects them.
package retail

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// ErrUnknownSite is returned when a site selector names no registered source.
var ErrUnknownSite = errors.New("unknown site")

// Source fetches search results from one retailer. Implementations are
// stateless and safe for concurrent use. Fields a retailer did not provide are
// reported as domain.NotAvailable.
type Source interface {
	Name() domain.Site
	Fetch(ctx context.Context, query string) ([]domain.RawItem, error)
}

// Registry holds the configured sources in registration order.
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry. Registration order is the order search
// results are merged in. The registry keeps its own copy of sources.
func NewRegistry(sources ...Source) *Registry {
	return &Registry{sources: slices.Clone(sources)}
}

// Resolve returns the sources selected by a site selector. "all" and the
// empty string select every source; a site name selects that source alone.
func (r *Registry) Resolve(selector string) ([]Source, error) {
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" || sel == domain.SiteAll {
		out := make([]Source, len(r.sources))
		copy(out, r.sources)
		return out, nil
	}

	for _, s := range r.sources {
		if string(s.Name()) == sel {
			return []Source{s}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSite, selector)
}

// Names returns the registered site names in registration order.
func (r *Registry) Names() []domain.Site {
	names := make([]domain.Site, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.Name())
	}
	return names
}
