package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func alertsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "alerts",
		Short: "Trigger price-drop alert evaluation",
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "check",
			Short: "Evaluate alerts for the current user now",
			Long: "Compares every wishlist item against live prices and sends one\n" +
				"notification with the items that dropped below their saved price.",
			RunE: func(cmd *cobra.Command, _ []string) error {
				user, err := currentUser()
				if err != nil {
					return err
				}
				report, err := newClient().EvaluateAlerts(cmd.Context(), user)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), report)
				}
				return printAlertReport(cmd.OutOrStdout(), report)
			},
		},
		&cobra.Command{
			Use:   "run",
			Short: "Run an alert pass for every user",
			RunE: func(cmd *cobra.Command, _ []string) error {
				summary, err := newClient().RunAlertPass(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), summary)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(),
					"Evaluated %d users (%d failed): %d price drops, %d notifications delivered in %s\n",
					summary.Users, summary.Failed, summary.Alerts, summary.Delivered, summary.Duration)
				return err
			},
		},
	)

	return root
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <product-id>",
		Short: "Show a tracked product's price history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newClient().PriceHistory(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), h)
			}
			return printHistory(cmd.OutOrStdout(), h)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of points to show")

	return cmd
}
