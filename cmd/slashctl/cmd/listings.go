package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/slash/internal/api/client"
)

func listingsCmd() *cobra.Command {
	listingsRoot := &cobra.Command{
		Use:   "listings",
		Short: "Browse and post marketplace listings",
		Long:  "Browse products posted for sale on slash, post new ones, and mark them sold.",
	}

	listingsRoot.AddCommand(
		listingsListCmd(),
		listingsPostCmd(),
		listingsSoldCmd(),
	)

	return listingsRoot
}

func listingsListCmd() *cobra.Command {
	var params apiclient.ListListingsParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings with optional filters",
		Example: `  # Everything unsold, newest first
  slashctl listings list

  # A seller's listings sorted by price
  slashctl listings list --posted-by alice --order-by price`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().ListListings(cmd.Context(), &params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, resp)
			}
			if len(resp.Listings) == 0 {
				_, err := fmt.Fprintln(out, "No listings found.")
				return err
			}

			if _, err := fmt.Fprintf(out, "Showing %d of %d listings\n\n", len(resp.Listings), resp.Total); err != nil {
				return err
			}
			return printListingsTable(out, resp.Listings)
		},
	}
	cmd.Flags().StringVar(&params.Name, "name", "", "name substring filter")
	cmd.Flags().StringVar(&params.PostedBy, "posted-by", "", "seller username filter")
	cmd.Flags().Float64Var(&params.MinPrice, "min", 0, "minimum price")
	cmd.Flags().Float64Var(&params.MaxPrice, "max", 0, "maximum price")
	cmd.Flags().BoolVar(&params.IncludeSold, "include-sold", false, "include sold listings")
	cmd.Flags().IntVar(&params.Limit, "limit", 50, "number of results")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "result offset")
	cmd.Flags().StringVar(&params.OrderBy, "order-by", "", "sort order (price, date_posted, name)")

	return cmd
}

func listingsPostCmd() *cobra.Command {
	var params apiclient.CreateListingParams

	cmd := &cobra.Command{
		Use:     "post <name>",
		Short:   "Post a listing (sellers only)",
		Example: `  slashctl listings post "Used Switch OLED" --price 249.99 --user alice`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			params.Name = args[0]
			params.PostedBy = user

			l, err := newClient().CreateListing(cmd.Context(), &params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), l)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Posted listing %s\n", l.ID)
			return err
		},
	}
	cmd.Flags().Float64Var(&params.Price, "price", 0, "asking price (required)")
	cmd.Flags().StringVar(&params.Description, "description", "", "description")
	cmd.Flags().StringVar(&params.Currency, "currency", "", "currency code (default USD)")
	cobra.CheckErr(cmd.MarkFlagRequired("price"))

	return cmd
}

func listingsSoldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sold <id>",
		Short: "Mark a listing sold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().MarkListingSold(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Listing %s marked sold.\n", args[0])
			return err
		},
	}
}
