package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanLisse/flok/internal/mail"
)

func newMailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mail",
		Aliases: []string{"m"},
		Short:   "Read, search, and send mail",
	}
	cmd.AddCommand(newMailListCmd())
	cmd.AddCommand(newMailReadCmd())
	cmd.AddCommand(newMailSearchCmd())
	cmd.AddCommand(newMailFoldersCmd())
	cmd.AddCommand(newMailSendCmd())
	cmd.AddCommand(newMailReplyCmd())
	cmd.AddCommand(newMailMoveCmd())
	cmd.AddCommand(newMailDeleteCmd())
	return cmd
}

func newMailListCmd() *cobra.Command {
	var (
		folder     string
		count      int
		unreadOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.mailClient()
			if err != nil {
				return err
			}
			messages, _, err := client.ListMessages(cmd.Context(), mail.ListOptions{
				Folder:     folder,
				Count:      count,
				UnreadOnly: unreadOnly,
			})
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Messages(messages))
			return nil
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Folder name or ID (default: inbox)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Maximum number of messages (default: 25)")
	cmd.Flags().BoolVarP(&unreadOnly, "unread", "u", false, "Only unread messages")
	return cmd
}

func newMailReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <message-id>",
		Short: "Show the full content of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.mailClient()
			if err != nil {
				return err
			}
			msg, err := client.GetMessage(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Message(msg))
			return nil
		},
	}
}

func newMailSearchCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search messages across all folders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.mailClient()
			if err != nil {
				return err
			}
			messages, err := client.SearchMessages(cmd.Context(), args[0], count)
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Messages(messages))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Maximum number of results (default: 25)")
	return cmd
}

func newMailFoldersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List mail folders with unread counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.mailClient()
			if err != nil {
				return err
			}
			folders, err := client.ListFolders(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Folders(folders))
			return nil
		},
	}
}

func newMailSendCmd() *cobra.Command {
	var (
		to      string
		cc      string
		bcc     string
		subject string
		body    string
		html    bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an email",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireWritable("mail send"); err != nil {
				return err
			}
			client, err := app.mailClient()
			if err != nil {
				return err
			}
			draft := mail.Draft{
				To:      splitList(to),
				Cc:      splitList(cc),
				Bcc:     splitList(bcc),
				Subject: subject,
				Body:    body,
				HTML:    html,
			}
			if len(draft.To) == 0 {
				return fmt.Errorf("--to is required")
			}
			if err := client.Send(cmd.Context(), draft.Request()); err != nil {
				return err
			}
			fmt.Printf("Sent to %s\n", strings.Join(draft.To, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient address(es), comma-separated")
	cmd.Flags().StringVar(&cc, "cc", "", "CC address(es), comma-separated")
	cmd.Flags().StringVar(&bcc, "bcc", "", "BCC address(es), comma-separated")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Subject line")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Message body")
	cmd.Flags().BoolVar(&html, "html", false, "Treat the body as HTML")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newMailReplyCmd() *cobra.Command {
	var (
		comment  string
		replyAll bool
	)

	cmd := &cobra.Command{
		Use:   "reply <message-id>",
		Short: "Reply to a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireWritable("mail reply"); err != nil {
				return err
			}
			client, err := app.mailClient()
			if err != nil {
				return err
			}
			if err := client.Reply(cmd.Context(), args[0], comment, replyAll); err != nil {
				return err
			}
			fmt.Println("Reply sent")
			return nil
		},
	}

	cmd.Flags().StringVarP(&comment, "message", "m", "", "Reply text")
	cmd.Flags().BoolVar(&replyAll, "all", false, "Reply to all recipients")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newMailMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <message-id> <folder>",
		Short: "Move a message to another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireWritable("mail move"); err != nil {
				return err
			}
			client, err := app.mailClient()
			if err != nil {
				return err
			}
			if _, err := client.Move(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Moved to %s\n", args[1])
			return nil
		},
	}
}

func newMailDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <message-id>",
		Short: "Delete a message (moves it to Deleted Items)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireWritable("mail delete"); err != nil {
				return err
			}
			client, err := app.mailClient()
			if err != nil {
				return err
			}
			if err := client.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Message deleted")
			return nil
		},
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
