package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/RyanLisse/flok/internal/auth"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in and manage accounts",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthTokenCmd())
	cmd.AddCommand(newAuthAccountsCmd())
	cmd.AddCommand(newAuthSwitchCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var accountName string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with the device code flow",
		Long: `Sign in to a Microsoft 365 account. Prints a code and a verification
URL; open the URL in any browser, enter the code, and the command completes
once the sign-in is approved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if accountName == "" {
				accountName = auth.DefaultAccount
			}

			account, err := app.manager.Login(cmd.Context(), accountName, func(userCode, verificationURI, message string) {
				if message != "" {
					fmt.Println(message)
					return
				}
				fmt.Printf("To sign in, open %s and enter the code %s\n", verificationURI, userCode)
			})
			if err != nil {
				return err
			}

			// First account becomes the default automatically.
			if _, ok := app.accounts.Default(); !ok {
				if err := app.accounts.SetDefault(account); err != nil {
					return err
				}
			}

			fmt.Printf("Signed in as %q\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountName, "name", "", "Name to store the account under (default: \"default\")")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout [account]",
		Short: "Remove stored tokens for an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			explicit := ""
			if len(args) == 1 {
				explicit = args[0]
			} else {
				explicit = app.cfg.Account
			}
			account, err := app.accounts.Resolve(explicit)
			if err != nil {
				if errors.Is(err, auth.ErrNoAccount) {
					fmt.Println("No accounts are signed in.")
					return nil
				}
				return err
			}
			if err := app.manager.Logout(account); err != nil {
				return err
			}
			if err := app.accounts.Remove(account); err != nil {
				return err
			}
			fmt.Printf("Signed out of %q\n", account)
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status for each stored account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			accounts, err := app.accounts.List()
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Println("No accounts are signed in. Run `flok auth login` first.")
				return nil
			}
			defaultAccount, _ := app.accounts.Default()
			for _, account := range accounts {
				marker := " "
				if account == defaultAccount {
					marker = "*"
				}
				state := "token expired or missing, will refresh on use"
				if app.manager.Authenticated(account) {
					state = "authenticated"
				}
				fmt.Printf("%s %-20s %s\n", marker, account, state)
			}
			return nil
		},
	}
}

func newAuthTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token [account]",
		Short: "Print an access token for use in scripts",
		Long: `Print a valid Graph API access token for the account, refreshing it
first when expired. Intended for scripting, e.g.:

  curl -H "Authorization: Bearer $(flok auth token)" https://graph.microsoft.com/v1.0/me`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			explicit := app.cfg.Account
			if len(args) == 1 {
				explicit = args[0]
			}
			account, err := app.accounts.Resolve(explicit)
			if err != nil {
				return err
			}
			return printAccessToken(cmd.OutOrStdout(), app.manager.Source(account))
		},
	}
}

// printAccessToken writes the source's bearer token followed by a newline.
func printAccessToken(w io.Writer, src oauth2.TokenSource) error {
	tok, err := src.Token()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, tok.AccessToken)
	return err
}

func newAuthAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List stored accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			accounts, err := app.accounts.List()
			if err != nil {
				return err
			}
			defaultAccount, _ := app.accounts.Default()
			for _, account := range accounts {
				if account == defaultAccount {
					fmt.Printf("%s (default)\n", account)
				} else {
					fmt.Println(account)
				}
			}
			return nil
		},
	}
}

func newAuthSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <account>",
		Short: "Set the default account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			account := args[0]
			accounts, err := app.accounts.List()
			if err != nil {
				return err
			}
			found := false
			for _, a := range accounts {
				if a == account {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("unknown account %q; run `flok auth accounts` to list stored accounts", account)
			}
			if err := app.accounts.SetDefault(account); err != nil {
				return err
			}
			fmt.Printf("Default account is now %q\n", account)
			return nil
		},
	}
}
