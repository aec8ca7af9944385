package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the flok application
var rootCmd = &cobra.Command{
	Use:   "flok",
	Short: "Microsoft 365 mail, calendar, contacts, and files from the terminal",
	Long: `flok is a command-line client for Microsoft 365. It covers mail,
calendar, contacts, and OneDrive over the Microsoft Graph API, with
device-code sign-in and multiple account support.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// Persistent flags shared by every subcommand.
var (
	flagAccount  string
	flagFormat   string
	flagReadOnly bool
	flagClientID string
	flagTenant   string
	flagLogLevel string
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "flok version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAccount, "account", "", "Account name to act on (default: resolved from FLOK_ACCOUNT, the saved default, or the only stored account)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "Output format: table, json, or compact (default: table)")
	rootCmd.PersistentFlags().BoolVar(&flagReadOnly, "read-only", false, "Disable all write operations")
	rootCmd.PersistentFlags().StringVar(&flagClientID, "client-id", "", "Azure AD application (client) ID (default: FLOK_CLIENT_ID)")
	rootCmd.PersistentFlags().StringVar(&flagTenant, "tenant", "", "Azure AD tenant (default: common)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newMailCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newContactsCmd())
	rootCmd.AddCommand(newDriveCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
