package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/slash/internal/api/client"
)

func registerCmd() *cobra.Command {
	var params apiclient.RegisterParams

	cmd := &cobra.Command{
		Use:     "register <username>",
		Short:   "Create an account",
		Example: `  slashctl register alice --email alice@example.com --password 'correct horse' --role seller`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Username = args[0]

			u, err := newClient().Register(cmd.Context(), &params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), u)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s) as %s\n", u.Username, u.ID, u.Role)
			return err
		},
	}
	cmd.Flags().StringVar(&params.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&params.Password, "password", "", "password, 8 to 72 bytes (required)")
	cmd.Flags().StringVar(&params.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&params.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&params.Role, "role", "buyer", "account role (buyer, seller)")
	cobra.CheckErr(cmd.MarkFlagRequired("email"))
	cobra.CheckErr(cmd.MarkFlagRequired("password"))

	return cmd
}

func loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Check credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := newClient().Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), u)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", u.Username, u.Email)
			return err
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (required)")
	cobra.CheckErr(cmd.MarkFlagRequired("password"))

	return cmd
}
