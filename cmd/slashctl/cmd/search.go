package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/slash/internal/api/client"
)

func searchCmd() *cobra.Command {
	var (
		site     string
		minPrice float64
		maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search retailers and internal listings",
		Long: "Search every configured retailer (or one, with --site) plus listings\n" +
			"posted on slash, keeping results priced within the given range.",
		Example: `  # Search everywhere with the default 0-10000 range
  slashctl search "nintendo switch"

  # Only Walmart, between $50 and $150
  slashctl search headphones --site walmart --min 50 --max 150`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &apiclient.SearchParams{Query: args[0], Site: site}
			if cmd.Flags().Changed("min") {
				params.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max") {
				params.MaxPrice = &maxPrice
			}

			resp, err := newClient().Search(cmd.Context(), params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, resp)
			}
			if len(resp.Items) == 0 {
				_, err := fmt.Fprintln(out, "No results found.")
				return err
			}
			return printItemsTable(out, resp.Items)
		},
	}
	cmd.Flags().StringVar(&site, "site", "all", "retailer to search (walmart, target, costco, bestbuy, ebay, all)")
	cmd.Flags().Float64Var(&minPrice, "min", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max", 10000, "maximum price")

	return cmd
}
