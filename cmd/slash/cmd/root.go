// Package cmd implements the CLI commands for the slash server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "slash",
	Short: "Price tracking and alerting marketplace backend",
	Long: "slash searches several retailers at once, lets users post listings, keep wishlists " +
		"and carts, and emails them when a wishlist item drops below the price they saved it at.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(versionCommand())
	rootCmd.AddCommand(openapiCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
