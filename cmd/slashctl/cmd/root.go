// Package cmd implements the slashctl CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/slash/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "slashctl",
		Short: "CLI client for slash",
		Long: "slashctl is a command-line client for the slash API.\n" +
			"It searches retailers, manages listings, wishlists, carts, and orders,\n" +
			"and triggers price-drop alert passes from the terminal.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.slashctl.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("user", "", "username for per-user commands")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user")))

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(listingsCmd())
	rootCmd.AddCommand(wishlistCmd())
	rootCmd.AddCommand(cartCmd())
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(alertsCmd())
	rootCmd.AddCommand(historyCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".slashctl")
	}

	viper.SetEnvPrefix("SLASHCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

// currentUser returns the --user flag (or SLASHCTL_USER), failing when unset.
func currentUser() (string, error) {
	u := viper.GetString("user")
	if u == "" {
		return "", fmt.Errorf("no user given: pass --user or set SLASHCTL_USER")
	}
	return u, nil
}
