package cmd

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/slash/api/openapi"
)

func openapiCommand() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document",
		Long:  "Builds the API routes without connecting to any backend and prints the generated OpenAPI 3.1 document.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := humaecho.New(echo.New(), humaConfig())
			registerAPI(api, nil, nil)

			data, err := openapi.Spec(api, format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	c.Flags().StringVar(&format, "format", "yaml", "output format (yaml, json)")

	return c
}
