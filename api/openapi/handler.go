// Package openapi serves Swagger UI over the OpenAPI document that Huma
// generates at runtime, and renders that document for offline use.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/labstack/echo/v4"
)

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Slash API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/openapi.json",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`

// RegisterRoutes adds the Swagger UI endpoints to the Echo instance.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/swagger/index.html", serveUI)
	e.GET("/swagger", redirectToUI)
	e.GET("/swagger/", redirectToUI)
}

// Spec renders the API's OpenAPI document as "yaml" or "json".
func Spec(api huma.API, format string) ([]byte, error) {
	switch format {
	case "yaml", "":
		data, err := api.OpenAPI().YAML()
		if err != nil {
			return nil, fmt.Errorf("rendering openapi yaml: %w", err)
		}
		return data, nil
	case "json":
		data, err := json.MarshalIndent(api.OpenAPI(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("rendering openapi json: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported openapi format %q", format)
	}
}

func serveUI(c echo.Context) error {
	return c.HTML(http.StatusOK, swaggerUIHTML)
}

func redirectToUI(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
}
