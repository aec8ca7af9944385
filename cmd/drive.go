package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Browse OneDrive files and folders",
	}
	cmd.AddCommand(newDriveLsCmd())
	cmd.AddCommand(newDriveGetCmd())
	cmd.AddCommand(newDriveSearchCmd())
	return cmd
}

func newDriveLsCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List the children of a folder (default: the drive root)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.driveClient()
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			items, _, err := client.ListChildren(cmd.Context(), path, count)
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Items(items))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Maximum number of items (default: 50)")
	return cmd
}

func newDriveGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <item-id>",
		Short: "Show the metadata of a file or folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.driveClient()
			if err != nil {
				return err
			}
			item, err := client.GetItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Item(item))
			return nil
		},
	}
}

func newDriveSearchCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the drive by file name and content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.driveClient()
			if err != nil {
				return err
			}
			items, _, err := client.SearchItems(cmd.Context(), args[0], count)
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Items(items))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Maximum number of results (default: 50)")
	return cmd
}
