// Package engine runs the price search aggregator and the price-drop alert
// evaluator on top of the retailer sources, the store and the notifier.
package engine

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/donaldgifford/slash/internal/notify"
	"github.com/donaldgifford/slash/internal/retail"
	"github.com/donaldgifford/slash/internal/store"
	domain "github.com/donaldgifford/slash/pkg/types"
)

const defaultConcurrency = 8

// Engine orchestrates search fan-out and alert evaluation.
type Engine struct {
	store       store.Store
	sources     *retail.Registry
	liveSources *retail.Registry
	notifier    notify.Notifier
	log         *slog.Logger
	tracer      trace.Tracer

	liveSource  domain.Site
	concurrency int
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	sources *retail.Registry,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:       s,
		sources:     sources,
		liveSources: sources,
		notifier:    n,
		log:         slog.Default(),
		tracer:      noop.NewTracerProvider().Tracer(""),
		liveSource:  domain.SiteWalmart,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithTracer sets the tracer used for search and alert spans.
func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithLiveSource sets the retailer queried for live prices during alert
// evaluation.
func WithLiveSource(site domain.Site) EngineOption {
	return func(e *Engine) {
		if site != "" {
			e.liveSource = site
		}
	}
}

// WithLiveSources sets the registry alert evaluation resolves the live source
// from. Search keeps using the registry given to NewEngine, so that one may
// be cached while alerts always reach the retailer.
func WithLiveSources(r *retail.Registry) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.liveSources = r
		}
	}
}

// WithConcurrency bounds how many sources a search queries at once.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}
