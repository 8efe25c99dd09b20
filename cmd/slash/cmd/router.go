package cmd

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/slash/api/openapi"
	"github.com/donaldgifford/slash/internal/api/handlers"
	"github.com/donaldgifford/slash/internal/api/middleware"
	"github.com/donaldgifford/slash/internal/store"
)

// engineAPI is the part of the engine exposed over HTTP.
type engineAPI interface {
	handlers.Searcher
	handlers.AlertEvaluator
}

func humaConfig() huma.Config {
	cfg := huma.DefaultConfig("Slash API", Version)
	cfg.Info.Description = "Multi-retailer price search, marketplace listings, wishlists, carts, " +
		"orders, and price-drop alerts."
	return cfg
}

// newRouter builds the Echo instance with middleware, operational endpoints,
// and every API route.
func newRouter(
	log *slog.Logger,
	st store.Store,
	eng engineAPI,
	healthOpts ...handlers.HealthOption,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(st, healthOpts...)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	openapi.RegisterRoutes(e)

	api := humaecho.New(e, humaConfig())
	registerAPI(api, st, eng)

	return e
}

// registerAPI registers the Huma operations. Handlers only keep their
// dependencies, so nil values are fine when only the schema is needed.
func registerAPI(api huma.API, st store.Store, eng engineAPI) {
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(eng))
	handlers.RegisterUserRoutes(api, handlers.NewUsersHandler(st))
	handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(st))
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(st))
	handlers.RegisterWishlistRoutes(api, handlers.NewWishlistHandler(st))
	handlers.RegisterCartRoutes(api, handlers.NewCartHandler(st))
	handlers.RegisterOrderRoutes(api, handlers.NewOrdersHandler(st))
	handlers.RegisterAlertRoutes(api, handlers.NewAlertsHandler(eng))
}
