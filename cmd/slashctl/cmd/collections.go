package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	apiclient "github.com/donaldgifford/slash/internal/api/client"
)

// bindProductFlags registers the flags describing a product to add.
func bindProductFlags(fs *pflag.FlagSet, ref *apiclient.ProductRef) {
	fs.StringVar(&ref.ProductID, "product-id", "", "ID of an already tracked product")
	fs.StringVar(&ref.Name, "name", "", "product title")
	fs.StringVar(&ref.URL, "url", "", "retailer product page")
	fs.StringVar(&ref.Site, "site", "", "retailer the product is from")
	fs.Float64Var(&ref.Price, "price", 0, "current price")
	fs.StringVar(&ref.ImageURL, "image-url", "", "product image")
}

func wishlistCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the products you track for price drops",
		Long: "Wishlist items remember the price they had when added. Alert passes\n" +
			"notify you when a live result undercuts that price.",
	}

	var ref apiclient.ProductRef
	add := &cobra.Command{
		Use:   "add",
		Short: "Track a product",
		Example: `  slashctl wishlist add --user alice --name "Sony WH-1000XM5" \
    --url https://www.walmart.com/ip/123 --site walmart --price 329.99`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			item, err := newClient().AddToWishlist(cmd.Context(), user, &ref)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), item)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Tracking %s at $%.2f (%s)\n",
				item.Product.Name, item.Product.Price, item.ID)
			return err
		},
	}
	bindProductFlags(add.Flags(), &ref)

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List tracked products",
			RunE: func(cmd *cobra.Command, _ []string) error {
				user, err := currentUser()
				if err != nil {
					return err
				}
				items, err := newClient().ListWishlist(cmd.Context(), user)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), items)
				}
				if len(items) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Wishlist is empty.")
					return err
				}
				return printWishlistTable(cmd.OutOrStdout(), items)
			},
		},
		add,
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Stop tracking a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				user, err := currentUser()
				if err != nil {
					return err
				}
				return newClient().RemoveFromWishlist(cmd.Context(), user, args[0])
			},
		},
	)

	return root
}

func cartCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cart",
		Short: "Manage your shopping cart",
	}

	var ref apiclient.ProductRef
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			item, err := newClient().AddToCart(cmd.Context(), user, &ref)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), item)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s to cart (%s)\n", item.Product.Name, item.ID)
			return err
		},
	}
	bindProductFlags(add.Flags(), &ref)

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the cart and its total",
			RunE: func(cmd *cobra.Command, _ []string) error {
				user, err := currentUser()
				if err != nil {
					return err
				}
				cart, err := newClient().ListCart(cmd.Context(), user)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), cart)
				}
				if len(cart.Items) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Cart is empty.")
					return err
				}
				return printCart(cmd.OutOrStdout(), cart)
			},
		},
		add,
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a product from the cart",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				user, err := currentUser()
				if err != nil {
					return err
				}
				return newClient().RemoveFromCart(cmd.Context(), user, args[0])
			},
		},
	)

	return root
}

func ordersCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "orders",
		Short: "Check out and review orders",
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your orders, newest first",
			RunE: func(cmd *cobra.Command, _ []string) error {
				user, err := currentUser()
				if err != nil {
					return err
				}
				orders, err := newClient().ListOrders(cmd.Context(), user)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), orders)
				}
				if len(orders) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "No orders yet.")
					return err
				}
				return printOrdersTable(cmd.OutOrStdout(), orders)
			},
		},
		&cobra.Command{
			Use:   "place",
			Short: "Check out everything in the cart",
			RunE: func(cmd *cobra.Command, _ []string) error {
				user, err := currentUser()
				if err != nil {
					return err
				}
				order, err := newClient().PlaceOrder(cmd.Context(), user)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), order)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Placed order %s: %d items, $%.2f\n",
					order.OrderID, len(order.Lines), order.Total)
				return err
			},
		},
	)

	return root
}
