package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	var (
		query string
		body  string
	)

	cmd := &cobra.Command{
		Use:   "graph <method> <path>",
		Short: "Call a Microsoft Graph endpoint directly",
		Long: `Call any Microsoft Graph API endpoint with the stored credentials.
The path is relative to the configured API version, e.g.

  flok graph GET /me
  flok graph GET /me/messages --query '$top=5&$select=subject'
  flok graph POST /me/sendMail --body @message.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			method := strings.ToUpper(args[0])
			switch method {
			case "GET":
			case "POST", "PATCH", "PUT", "DELETE":
				if err := app.requireWritable("graph " + method); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported method %q", args[0])
			}
			path := args[1]
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			var values url.Values
			if query != "" {
				if values, err = url.ParseQuery(query); err != nil {
					return fmt.Errorf("parsing --query: %w", err)
				}
			}
			var payload []byte
			if body != "" {
				if strings.HasPrefix(body, "@") {
					if payload, err = os.ReadFile(strings.TrimPrefix(body, "@")); err != nil {
						return fmt.Errorf("reading --body file: %w", err)
					}
				} else {
					payload = []byte(body)
				}
			}
			client, err := app.graphClient()
			if err != nil {
				return err
			}
			data, err := client.Raw(cmd.Context(), method, path, values, payload, nil)
			if err != nil {
				return err
			}
			if len(data) == 0 {
				fmt.Println("OK")
				return nil
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, data, "", "  "); err != nil {
				fmt.Println(string(data))
				return nil
			}
			fmt.Println(pretty.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "URL query string, e.g. '$top=10&$select=id'")
	cmd.Flags().StringVarP(&body, "body", "b", "", "JSON request body")
	return cmd
}
